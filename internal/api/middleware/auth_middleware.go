package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AdminIDKey struct{}

// GetAdminIDFromContext retrieves the authenticated admin's user ID from the context.
func GetAdminIDFromContext(ctx context.Context) (string, bool) {
	adminID, ok := ctx.Value(AdminIDKey{}).(string)
	return adminID, ok
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// AdminAuthMiddleware はコンダクター（管理者）用ルートを保護するミドルウェアです。
// SupabaseのJWT（HMAC署名、subクレームにユーザーID）を検証します。
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// テスト用: 環境変数で認証をバイパス可能にする
		if os.Getenv("BYPASS_AUTH") == "true" {
			testAdminID := uuid.New().String()
			log.Printf("AdminAuthMiddleware: BYPASS_AUTH enabled, generated test admin ID: %s", testAdminID)
			ctx := context.WithValue(r.Context(), AdminIDKey{}, testAdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// 1. authorizationヘッダーからJWTを取得
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := ""
		if len(authHeader) > 7 && authHeader[0:7] == "Bearer " {
			tokenString = authHeader[7:]
		} else {
			writeJSONError(w, http.StatusUnauthorized, "Invalid Authorization header format. Must be 'Bearer <token>'")
			return
		}

		// 2. JWT Secretを取得
		jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("Error: SUPABASE_JWT_SECRET environment variable is not set.")
			writeJSONError(w, http.StatusInternalServerError, "Server configuration error: JWT secret missing")
			return
		}

		// JWTの検証とパース
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// アルゴリズムがHMACであることを確認
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				log.Printf("AdminAuthMiddleware Error: Unexpected signing method: %v", token.Header["alg"])
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			log.Printf("AdminAuthMiddleware Error: JWT validation error: %v", err)
			writeJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// トークンのクレームを取得
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		// SupabaseのJWTは通常、ユーザーIDを 'sub' (Subject) クレームにUUIDとして格納します。
		adminID, ok := claims["sub"].(string)
		if !ok {
			log.Printf("AdminAuthMiddleware Error: JWT claims missing 'sub' (adminID) or wrong type: %v", claims["sub"])
			writeJSONError(w, http.StatusUnauthorized, "Invalid token: missing user ID")
			return
		}

		// 管理者IDをContextに設定して次のハンドラに渡す
		ctx := context.WithValue(r.Context(), AdminIDKey{}, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
