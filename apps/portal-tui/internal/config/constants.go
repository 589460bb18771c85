package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 5 * time.Second
	ValkeyCommandTimeout = 5 * time.Second
)

// 画面設定
const (
	// StatusMessageDuration はステータスバーのメッセージ表示時間
	StatusMessageDuration = 5 * time.Second
)
