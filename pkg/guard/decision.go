package guard

import (
	"fmt"

	"github.com/oyaguma3/hr-portal/pkg/model"
)

// Outcome は判定結果。
type Outcome int

const (
	// Allowed はビューの表示を許可する
	Allowed Outcome = iota
	// Denied はログインビューへリダイレクトする
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Reason は拒否理由。利用者には区別せず提示し、ログと監査にのみ使う。
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonRoleMismatch    Reason = "role_mismatch"
	ReasonNoRequirement   Reason = "no_requirement"
)

// Decision はガードの判定結果。
type Decision struct {
	Outcome       Outcome
	Reason        Reason
	Authenticated bool
	Role          model.Role // 判定時点のロール（未認証なら空）
	Redirect      string     // 拒否時の遷移先
}

// Allowed は許可判定かを返す。
func (d Decision) Allowed() bool {
	return d.Outcome == Allowed
}
