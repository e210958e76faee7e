package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL はログイン時に発行するトークンの有効期間。
const TokenTTL = 2 * time.Hour

// CodecConfig は Codec の設定。
type CodecConfig struct {
	// Secret はHS256署名用の共有秘密鍵。
	Secret []byte
	// TTL はトークンの有効期間。0の場合は TokenTTL を使用する。
	TTL time.Duration
}

// Claims はトークンのクレーム（ペイロード）を表す。
type Claims struct {
	jwt.RegisteredClaims
	// UserID はトークンの持ち主のユーザーID。
	UserID int64 `json:"userId"`
}

// Codec は署名付きトークンの発行と検証を行う。
// 状態を持たないため複数のゴルーチンから同時に使用できる。
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption は Codec の生成オプション。
type CodecOption func(*Codec)

// WithClock は現在時刻の取得関数を差し替える。テストで使用する。
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec は新しい Codec を生成する。秘密鍵が空の場合はエラーを返す。
func NewCodec(cfg CodecConfig, opts ...CodecOption) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("トークンの秘密鍵が設定されていません")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = TokenTTL
	}

	c := &Codec{
		secret: cfg.Secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL はトークンの有効期間を返す。
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue はユーザーIDを埋め込んだトークンを発行する。
// 有効期限は発行時刻 + TTL。
func (c *Codec) Issue(userID int64) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、埋め込まれたユーザーIDを返す。
// 期限切れの場合は ErrExpired、解析失敗・署名不一致の場合は ErrMalformed を返す。
// 署名検証は有効期限の確認より先に行われる。
func (c *Codec) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !token.Valid {
		return 0, ErrMalformed
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("%w: userIdクレームがありません", ErrMalformed)
	}
	return claims.UserID, nil
}
