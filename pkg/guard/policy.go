package guard

import (
	"fmt"
	"strings"
)

// EmptyRequirementPolicy は許可ロール集合が空の場合の扱い。
type EmptyRequirementPolicy string

const (
	// PolicyAllowAuthenticated は認証済みなら任意のロールで許可する
	PolicyAllowAuthenticated EmptyRequirementPolicy = "allow_authenticated"
	// PolicyDeny は常に拒否する
	PolicyDeny EmptyRequirementPolicy = "deny"
)

// ParseEmptyRequirementPolicy は文字列からポリシーを解析する。空文字列は既定値。
func ParseEmptyRequirementPolicy(s string) (EmptyRequirementPolicy, error) {
	switch p := EmptyRequirementPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAllowAuthenticated, nil
	case PolicyAllowAuthenticated, PolicyDeny:
		return p, nil
	default:
		return "", fmt.Errorf("unknown empty requirement policy: %q", s)
	}
}
