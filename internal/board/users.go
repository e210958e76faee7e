package board

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	// nicknamePattern は3文字以上の英数字。
	nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)
	// passwordPattern は4文字以上の英数字。
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{4,}$`)
)

// signupRequest は会員登録リクエストのJSON構造。
type signupRequest struct {
	Email           string `json:"email" binding:"required"`
	Nickname        string `json:"nickname" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Name            string `json:"name" binding:"required"`
	// Age は0歳も受け付けるためポインタで存在を判定する。
	Age          *int64 `json:"age" binding:"required,gte=0"`
	Gender       string `json:"gender" binding:"required"`
	ProfileImage string `json:"profileImage"`
}

// loginRequest はログインリクエストのJSON構造。
// Email と Nickname のどちらかを指定する。両方ある場合は Email を優先する。
type loginRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// signoutRequest は会員退会リクエストのJSON構造。
type signoutRequest struct {
	Password string `json:"password"`
}

// handleSignup は会員登録を処理するハンドラを返す。
func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		switch {
		case !nicknamePattern.MatchString(req.Nickname):
			respondError(c, http.StatusPreconditionFailed, msgNicknameFormat)
			return
		case !passwordPattern.MatchString(req.Password):
			respondError(c, http.StatusPreconditionFailed, msgPasswordFormat)
			return
		case strings.Contains(req.Password, req.Nickname):
			respondError(c, http.StatusPreconditionFailed, msgPasswordHasNickname)
			return
		case req.Password != req.ConfirmPassword:
			respondError(c, http.StatusPreconditionFailed, msgPasswordMismatch)
			return
		}

		ctx := c.Request.Context()
		if _, err := s.store.FindByUniqueField(ctx, FieldNickname, req.Nickname); err == nil {
			respondError(c, http.StatusPreconditionFailed, msgDuplicateNickname)
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.storeFailure(c, msgInvalidRequest, err)
			return
		}
		if _, err := s.store.FindByUniqueField(ctx, FieldEmail, req.Email); err == nil {
			respondError(c, http.StatusBadRequest, msgDuplicateEmail)
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.storeFailure(c, msgInvalidRequest, err)
			return
		}

		_, err := s.store.Create(ctx, newUser{
			Email:        req.Email,
			Nickname:     req.Nickname,
			Password:     req.Password,
			Name:         req.Name,
			Age:          *req.Age,
			Gender:       req.Gender,
			ProfileImage: req.ProfileImage,
		})
		switch {
		case errors.Is(err, errDuplicateNickname):
			respondError(c, http.StatusPreconditionFailed, msgDuplicateNickname)
			return
		case errors.Is(err, errDuplicateEmail):
			respondError(c, http.StatusBadRequest, msgDuplicateEmail)
			return
		case err != nil:
			s.storeFailure(c, msgInvalidRequest, err)
			return
		}

		respondMessage(c, http.StatusCreated, msgSignupSucceeded)
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功するとトークンを発行してCookieに設定する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		var (
			field UniqueField
			value string
		)
		switch {
		case req.Email != "":
			field, value = FieldEmail, req.Email
		case req.Nickname != "":
			field, value = FieldNickname, req.Nickname
		default:
			respondError(c, http.StatusForbidden, msgLoginIdentifier)
			return
		}

		user, err := s.store.FindByUniqueField(c.Request.Context(), field, value)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.storeFailure(c, msgLoginFailed, err)
			return
		}
		if err != nil || !checkPassword(user.PasswordHash, req.Password) {
			respondError(c, http.StatusPreconditionFailed, msgLoginMismatch)
			return
		}

		token, err := s.codec.Issue(user.ID)
		if err != nil {
			s.storeFailure(c, msgLoginFailed, err)
			return
		}
		s.gateway.Carrier().Attach(c.Writer, token)

		respondMessage(c, http.StatusOK, msgLoginSucceeded)
	}
}

// handleLogout はログアウトを処理するハンドラを返す。
// トークンの検証は行わず、Cookieがあれば無条件に削除する。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		carrier := s.gateway.Carrier()
		if _, ok := carrier.Extract(c.Request); !ok {
			respondError(c, http.StatusUnauthorized, msgNotLoggedIn)
			return
		}
		carrier.Clear(c.Writer)
		respondMessage(c, http.StatusOK, msgLoggedOut)
	}
}

// handleSignout は会員退会を処理するハンドラを返す。
// パスワードを再確認してからユーザーを削除し、Cookieも削除する。
func (s *Server) handleSignout() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		identity := currentIdentity(c)
		ctx := c.Request.Context()
		user, err := s.store.FindByID(ctx, identity.UserID)
		if err != nil {
			s.storeFailure(c, msgBadRequest, err)
			return
		}
		if !checkPassword(user.PasswordHash, req.Password) {
			respondError(c, http.StatusUnauthorized, msgSignoutMismatch)
			return
		}

		if err := s.store.Delete(ctx, user.ID); err != nil {
			s.storeFailure(c, msgBadRequest, err)
			return
		}
		s.gateway.Carrier().Clear(c.Writer)

		respondMessage(c, http.StatusOK, msgSignedOut)
	}
}

// handleMe はログイン中ユーザーのプロフィールを返すハンドラを返す。
func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		p, err := s.queries.GetUserProfile(c.Request.Context(), identity.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		if err != nil {
			s.storeFailure(c, msgBadRequest, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": profileResponse{
			UserID:       p.ID,
			Email:        p.Email,
			Nickname:     p.Nickname,
			Name:         p.Name,
			Age:          p.Age,
			Gender:       p.Gender,
			ProfileImage: p.ProfileImage,
			CreatedAt:    p.CreatedAt,
		}})
	}
}
