// Package session はセッションストア（ロールスロット）と参照ヘルパーを提供する。
package session

import (
	"context"

	"github.com/oyaguma3/hr-portal/pkg/model"
)

// Repository は1オリジンのセッションスロットに対する操作を定義する。
// 同じストレージを共有する全コンテキストから同じスロットが見える。
// 同時書き込みの調停は行わず、最後の書き込みが勝つ。
type Repository interface {
	// Get は現在のセッションを返す。スロットが空の場合はErrSessionNotFound。
	Get(ctx context.Context) (*model.Session, error)
	// Set はスロットにロールを書き込む。値の検証は行わない。
	Set(ctx context.Context, role model.Role) error
	// Clear はスロットを空にする。空でもエラーにしない。
	Clear(ctx context.Context) error
}
