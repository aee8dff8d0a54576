package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"WellCheck/config"
)

// 密码散列：盐 + ":" + 明文，存 hex。核对时恒定时间比较

func HashPassword(plain string) string {
	key := config.Cfg.PasswordHashSalt

	sum := sha256.Sum256([]byte(key + ":" + plain))

	return hex.EncodeToString(sum[:])
}

func VerifyPassword(plain, hashed string) bool {
	computed := HashPassword(plain)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashed)) == 1
}
