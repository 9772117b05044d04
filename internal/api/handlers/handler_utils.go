package handlers

import (
	"encoding/json"
	"net/http"
)

// setNoCacheHeaders はポーリング系エンドポイントのレスポンスがキャッシュされないようにします。
// 古いコマンドや順位表が配信されると表示が巻き戻って見えるため必須です。
func setNoCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// writeJSON はJSONレスポンスを書き込みます。
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// clientIP はリバースプロキシ経由でも接続元IPを取得します。
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// カンマ区切りの先頭が元のクライアント
		for i := 0; i < len(forwarded); i++ {
			if forwarded[i] == ',' {
				return forwarded[:i]
			}
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
