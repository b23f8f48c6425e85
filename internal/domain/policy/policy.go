// Package policy は「誰が何をしてよいか」を1か所で判定する。
//
// 出品権限はプロフィールのロールとグループ所属の2系統で表現されているが、
// 判定はResolveSubject/Subject.Canに集約し、ハンドラ側で個別に見ない。
package policy

import "bookex/internal/domain/model"

type Capability string

const (
	// 本の出品・編集・削除
	CapPublishBooks Capability = "publish_books"
)

// 判定に使う利用者の属性
type Subject struct {
	UserID      int64
	ProfileRole model.Role
	Groups      []string
}

func ResolveSubject(userID int64, profile *model.UserProfile, groups []string) Subject {
	s := Subject{UserID: userID, ProfileRole: model.RoleRegular, Groups: groups}
	if profile != nil && profile.Role.Valid() {
		s.ProfileRole = profile.Role
	}
	return s
}

// プロフィール側で出品できるか
func (s Subject) publisherByProfile() bool {
	switch s.ProfileRole {
	case model.RolePublisher, model.RoleWriter, model.RolePublisherWriter:
		return true
	}
	return false
}

// グループ側で出品できるか
func (s Subject) publisherByGroup() bool {
	for _, g := range s.Groups {
		if g == model.GroupPublisher || g == model.GroupWriter {
			return true
		}
	}
	return false
}

// どちらか一方でも許可していれば許可
func (s Subject) Can(c Capability) bool {
	switch c {
	case CapPublishBooks:
		return s.publisherByProfile() || s.publisherByGroup()
	}
	return false
}

// 2系統の判定が食い違っているか（ログで知らせる用）
func (s Subject) Disagrees() bool {
	return s.publisherByProfile() != s.publisherByGroup()
}
