package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	boarddb "github.com/nao1215/board/internal/board/db"
	"github.com/nao1215/board/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// UniqueField はユーザーを一意に特定できる項目。
type UniqueField int

const (
	// FieldEmail はメールアドレス。
	FieldEmail UniqueField = iota
	// FieldNickname はニックネーム。
	FieldNickname
)

var (
	// errDuplicateEmail はメールアドレスが既に登録されている。
	errDuplicateEmail = errors.New("メールアドレスが重複しています")
	// errDuplicateNickname はニックネームが既に登録されている。
	errDuplicateNickname = errors.New("ニックネームが重複しています")
)

// newUser は会員登録で作成するユーザー。
type newUser struct {
	Email        string
	Nickname     string
	Password     string
	Name         string
	Age          int64
	Gender       string
	ProfileImage string
}

// credentialStore はユーザーの資格情報を永続化する。
// auth.IdentityFinder を実装し、Gateway からのユーザー解決にも使われる。
type credentialStore struct {
	db      *sql.DB
	queries *boarddb.Queries
	// cost はbcryptのコスト。
	cost int
}

func newCredentialStore(db *sql.DB, queries *boarddb.Queries) *credentialStore {
	return &credentialStore{db: db, queries: queries, cost: bcrypt.DefaultCost}
}

// FindIdentity はユーザーIDから Identity を解決する。
// ユーザーが存在しない場合は auth.ErrIdentityNotFound を返す。
func (s *credentialStore) FindIdentity(ctx context.Context, userID int64) (auth.Identity, error) {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Identity{}, auth.ErrIdentityNotFound
		}
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, Nickname: u.Nickname, Email: u.Email}, nil
}

// FindByID はIDでユーザーを取得する。
func (s *credentialStore) FindByID(ctx context.Context, userID int64) (boarddb.User, error) {
	return s.queries.GetUserByID(ctx, userID)
}

// FindByUniqueField は一意な項目でユーザーを取得する。
// 該当ユーザーがいない場合は sql.ErrNoRows を返す。
func (s *credentialStore) FindByUniqueField(ctx context.Context, field UniqueField, value string) (boarddb.User, error) {
	switch field {
	case FieldEmail:
		return s.queries.GetUserByEmail(ctx, value)
	case FieldNickname:
		return s.queries.GetUserByNickname(ctx, value)
	default:
		return boarddb.User{}, fmt.Errorf("未対応の項目: %d", field)
	}
}

// Create はユーザーとプロフィールを1つのトランザクションで作成し、ユーザーIDを返す。
// 一意制約違反は errDuplicateEmail または errDuplicateNickname として返す。
func (s *credentialStore) Create(ctx context.Context, u newUser) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	qtx := s.queries.WithTx(tx)
	result, err := qtx.CreateUser(ctx, boarddb.CreateUserParams{
		Email:        u.Email,
		Nickname:     u.Nickname,
		PasswordHash: string(hash),
	})
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("ユーザーの作成に失敗: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ユーザーIDの取得に失敗: %w", err)
	}

	if err := qtx.CreateUserInfo(ctx, boarddb.CreateUserInfoParams{
		UserID:       userID,
		Name:         u.Name,
		Age:          u.Age,
		Gender:       strings.ToUpper(u.Gender),
		ProfileImage: u.ProfileImage,
	}); err != nil {
		return 0, fmt.Errorf("ユーザー情報の作成に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("コミットに失敗: %w", err)
	}
	return userID, nil
}

// Delete はユーザーを削除する。投稿・コメント・いいねも連鎖して削除される。
// ユーザーが存在しない場合は auth.ErrIdentityNotFound を返す。
func (s *credentialStore) Delete(ctx context.Context, userID int64) error {
	n, err := s.queries.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの削除に失敗: %w", err)
	}
	if n == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}

// checkPassword はパスワードがハッシュと一致するかを返す。
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// duplicateError は一意制約違反を対応するエラーに変換する。該当しない場合は nil。
func duplicateError(err error) error {
	var se *sqlite.Error
	// 拡張結果コードの有無に関わらず下位8ビットが制約違反を表す
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	msg := se.Error()
	switch {
	case !strings.Contains(msg, "UNIQUE"):
		return nil
	case strings.Contains(msg, "users.email"):
		return errDuplicateEmail
	case strings.Contains(msg, "users.nickname"):
		return errDuplicateNickname
	}
	return nil
}
