// Package identitysvc resolve thông tin hiển thị của partner từ các collection
// danh tính. Thứ tự resolve: partners (canonical) trước, users (legacy) sau.
package identitysvc

import (
	"context"
	"errors"
	"fmt"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	identitymodels "coffee_share/internal/api/identity/models"
	"coffee_share/internal/common"
	"coffee_share/internal/global"
	"coffee_share/internal/logger"
	"coffee_share/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IdentityService đọc thông tin partner để gắn vào report header.
type IdentityService struct {
	partnerColl *mongo.Collection
	userColl    *mongo.Collection
}

// NewIdentityService tạo mới IdentityService.
func NewIdentityService() (*IdentityService, error) {
	partnerColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.Partners)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Partners, common.ErrNotFound)
	}
	userColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Users, common.ErrNotFound)
	}
	return &IdentityService{
		partnerColl: partnerColl,
		userColl:    userColl,
	}, nil
}

// ResolvePartnerHeader tìm thông tin hiển thị của partner cho report header.
// Collection partners là canonical; partner cũ chưa migrate fallback sang users.
// Không tìm thấy ở cả hai KHÔNG phải lỗi — report vẫn render được với header
// tối thiểu (chỉ có partnerId), nên trả về header rỗng thay vì error.
func (s *IdentityService) ResolvePartnerHeader(ctx context.Context, partnerID string) *analyticsdto.PartnerHeader {
	header := &analyticsdto.PartnerHeader{PartnerID: partnerID}

	var partner identitymodels.Partner
	err := s.partnerColl.FindOne(ctx, bson.M{"_id": partnerID}).Decode(&partner)
	if err == nil {
		header.DisplayName = partner.Name
		header.Email = partner.Email
		header.Verified = s.crossCheckVerified(ctx, partnerID, partner.Verified)
		return header
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.GetAppLogger().WithFields(logrus.Fields{"partner_id": partnerID, "error": err.Error()}).
			Warn("👤 [PARTNER_HEADER] Lỗi đọc collection partners, thử fallback users")
	}

	var user identitymodels.LegacyUser
	err = s.userColl.FindOne(ctx, bson.M{"_id": partnerID}).Decode(&user)
	if err == nil {
		header.DisplayName = user.Name
		header.Email = user.Email
		header.Verified = s.crossCheckVerified(ctx, partnerID, user.EmailVerified)
		return header
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.GetAppLogger().WithFields(logrus.Fields{"partner_id": partnerID, "error": err.Error()}).
			Warn("👤 [PARTNER_HEADER] Lỗi đọc collection users (legacy)")
	}

	// Header tối thiểu, caller tự quyết có hiển thị hay không
	return header
}

// crossCheckVerified đối chiếu cờ verified trong database với trạng thái email
// verified trên Firebase Auth. Partner id chính là Firebase UID. Khi Firebase
// chưa cấu hình hoặc UID không tồn tại trên Firebase thì giữ giá trị database.
func (s *IdentityService) crossCheckVerified(ctx context.Context, partnerID string, dbVerified bool) bool {
	if utility.GetFirebaseAuth() == nil {
		return dbVerified
	}
	user, err := utility.GetUserByUID(ctx, partnerID)
	if err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{"partner_id": partnerID, "error": err.Error()}).
			Debug("👤 [PARTNER_HEADER] Không đối chiếu được với Firebase, dùng giá trị database")
		return dbVerified
	}
	return dbVerified && user.EmailVerified
}
