// Package config はboardサービスの設定を読み込む。
//
// 設定は次の順に読み込まれ、後のものが優先される。
//  1. 組み込みのデフォルト値
//  2. YAMLファイル（存在する場合のみ）
//  3. BOARD__ 接頭辞の環境変数（例: BOARD__AUTH__SECRET → auth.secret）
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix は設定として読み込む環境変数の接頭辞。
const EnvPrefix = "BOARD__"

// Config はサービス全体の設定。
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig はHTTPサーバーの設定。
type ServerConfig struct {
	// Port はリッスンポート。
	Port string `koanf:"port"`
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string `koanf:"allowedOrigins"`
}

// DatabaseConfig はSQLiteの設定。
type DatabaseConfig struct {
	// Path はデータベースファイルのパス。":memory:" も指定できる。
	Path string `koanf:"path"`
}

// AuthConfig は認証の設定。
type AuthConfig struct {
	// Secret はトークン署名用の秘密鍵。
	Secret string `koanf:"secret"`
	// SecureCookie はCookieにSecure属性を付けるかどうか。
	SecureCookie bool `koanf:"secureCookie"`
}

// LogConfig はログ出力の設定。
type LogConfig struct {
	// Level はログレベル（debug, info, warn, error）。
	Level string `koanf:"level"`
	// Format は出力形式（console, json）。
	Format string `koanf:"format"`
}

// MetricsConfig はメトリクスの設定。
type MetricsConfig struct {
	// Enabled は /metrics を公開するかどうか。
	Enabled bool `koanf:"enabled"`
}

// defaults は組み込みのデフォルト値。
var defaults = map[string]any{
	"server.port":           "3001",
	"server.allowedOrigins": []string{},
	"database.path":         "board.db",
	"auth.secureCookie":     false,
	"log.level":             "info",
	"log.format":            "console",
	"metrics.enabled":       true,
}

// Load は設定を読み込んで検証する。
// path が空、またはファイルが存在しない場合はYAMLファイルの読み込みを省略する。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("デフォルト設定の読み込みに失敗: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("設定ファイル %s を確認できません: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("設定の展開に失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は必須項目を検証する。
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret が設定されていません")
	}
	if c.Server.Port == "" {
		return errors.New("server.port が設定されていません")
	}
	if c.Database.Path == "" {
		return errors.New("database.path が設定されていません")
	}
	return nil
}

// listKeys はカンマ区切りで複数の値を受け付けるキー。
var listKeys = map[string]struct{}{
	"server.allowedOrigins": {},
}

// envValue は環境変数を設定キーと値に変換する。
func envValue(key, value string) (string, any) {
	k := transformEnv(key)
	if _, ok := listKeys[k]; ok {
		var items []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				items = append(items, v)
			}
		}
		return k, items
	}
	return k, value
}

// transformEnv は環境変数名を設定キーに変換する。
// "__" で区切られた各セグメントはcamelCaseに変換する。
// 例: BOARD__SERVER__ALLOWED_ORIGINS → server.allowedOrigins
func transformEnv(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	segments := strings.Split(s, "__")
	for i, segment := range segments {
		parts := strings.Split(segment, "_")
		for j := 1; j < len(parts); j++ {
			parts[j] = capitalize(parts[j])
		}
		segments[i] = strings.Join(parts, "")
	}
	return strings.Join(segments, ".")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
