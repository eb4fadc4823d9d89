package basehdl

import (
	"bytes"
	"encoding/json"

	"coffee_share/internal/common"
	"coffee_share/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ParseRequestBody parse JSON body thành struct và validate theo tag validate.
// UseNumber để giữ nguyên số nguyên lớn (bani là int64, không được mất độ chính xác).
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, "Dữ liệu JSON không hợp lệ", common.StatusBadRequest, err)
	}

	return ValidateInput(input)
}

// ValidateInput validate struct theo tag validate, trả về lỗi dạng chuẩn
// với danh sách field vi phạm trong Details.
func ValidateInput(input interface{}) error {
	if global.Validate == nil {
		return nil
	}
	if err := global.Validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			details := make(map[string]string, len(validationErrors))
			for _, fe := range validationErrors {
				details[fe.Field()] = fe.Tag()
			}
			return common.NewError(common.ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", common.StatusBadRequest, details)
		}
		return common.NewError(common.ErrCodeValidation, "Cấu trúc input không validate được", common.StatusInternalServerError, err)
	}
	return nil
}
