// Package identitymodels - projection đọc-only của các collection danh tính.
// Các collection này do service khác sở hữu; ở đây chỉ đọc, không bao giờ ghi.
package identitymodels

// Partner là bản ghi trong collection partners (nguồn canonical).
// Chỉ map các field cần cho report header.
type Partner struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Verified bool   `json:"verified" bson:"verified"`
}

// LegacyUser là bản ghi trong collection users (legacy, trước khi tách partners).
// Partner cũ chưa migrate vẫn nằm ở đây.
type LegacyUser struct {
	ID            string `json:"id" bson:"_id"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	EmailVerified bool   `json:"emailVerified" bson:"emailVerified"`
}
