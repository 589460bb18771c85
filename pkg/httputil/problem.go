// Package httputil はHTTP関連のユーティリティを提供する。
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/oyaguma3/hr-portal/pkg/apperr"
)

// ContentType はRFC 7807で定義されたContent-Typeヘッダー値。
const ContentType = "application/problem+json"

// ProblemDetail はRFC 7807準拠のエラーレスポンス構造体。
type ProblemDetail struct {
	Type          string         `json:"type"`                     // エラータイプのURI
	Title         string         `json:"title"`                    // エラータイトル
	Status        int            `json:"status"`                   // HTTPステータスコード
	Detail        string         `json:"detail,omitempty"`         // 詳細説明
	Instance      string         `json:"instance,omitempty"`       // 発生したリクエストのパス
	TraceID       string         `json:"trace_id,omitempty"`       // ログとの突き合わせ用
	InvalidParams []InvalidParam `json:"invalid-params,omitempty"` // 入力検証エラーの対象
}

// InvalidParam は検証に失敗した入力項目。
type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// NewProblemDetail は新しいProblemDetailを生成する。
func NewProblemDetail(status int, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// BadRequest は400 Bad Requestのエラーレスポンスを生成する。
func BadRequest(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusBadRequest, "Bad Request", detail)
}

// NotFound は404 Not Foundのエラーレスポンスを生成する。
func NotFound(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusNotFound, "Not Found", detail)
}

// InternalServerError は500 Internal Server Errorのエラーレスポンスを生成する。
func InternalServerError(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusInternalServerError, "Internal Server Error", detail)
}

// ServiceUnavailable は503 Service Unavailableのエラーレスポンスを生成する。
func ServiceUnavailable(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusServiceUnavailable, "Service Unavailable", detail)
}

// FromValidationError はValidationErrorを400レスポンスに変換する。
func FromValidationError(ve *apperr.ValidationError) *ProblemDetail {
	p := BadRequest(ve.Error())
	p.InvalidParams = []InvalidParam{{Name: ve.Field, Reason: ve.Message}}
	return p
}

// JSON はProblemDetailをJSON形式にエンコードする。
func (p *ProblemDetail) JSON() ([]byte, error) {
	return json.Marshal(p)
}
