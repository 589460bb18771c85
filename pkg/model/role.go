// Package model はHRポータルのドメインモデルを定義する。
package model

// Role はロール識別子を表す。
// 値の検証は行わず、比較は完全一致（大文字小文字区別）で行う。
type Role string

// 既知のロール
const (
	// RoleEmployee は一般従業員
	RoleEmployee Role = "employee"
	// RoleHR は人事担当者
	RoleHR Role = "hr"
)

// String はロール識別子を文字列で返す。
func (r Role) String() string {
	return string(r)
}

// ContainsRole はロール集合にroleが含まれるかを判定する。
func ContainsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
