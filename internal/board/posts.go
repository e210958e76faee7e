package board

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	boarddb "github.com/nao1215/board/internal/board/db"
)

// postRequest は投稿の作成・更新リクエストのJSON構造。
// 更新時は指定された項目のみ変更するため、存在をポインタで判定する。
type postRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// validate はリクエストを検証し、不正な場合はクライアントに返すメッセージを返す。
// partial が false の場合は両方の項目を必須とする。
func (r postRequest) validate(partial bool) (string, bool) {
	if r.Title == nil && r.Content == nil {
		return msgInvalidData, false
	}
	if (r.Title == nil && !partial) || (r.Title != nil && strings.TrimSpace(*r.Title) == "") {
		return msgPostTitleFormat, false
	}
	if (r.Content == nil && !partial) || (r.Content != nil && strings.TrimSpace(*r.Content) == "") {
		return msgPostContentFormat, false
	}
	return "", true
}

// handleCreatePost は投稿作成を処理するハンドラを返す。
func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusPreconditionFailed, msgInvalidData)
			return
		}
		if msg, ok := req.validate(false); !ok {
			respondError(c, http.StatusPreconditionFailed, msg)
			return
		}

		if err := s.queries.CreatePost(c.Request.Context(), boarddb.CreatePostParams{
			UserID:  currentIdentity(c).UserID,
			Title:   *req.Title,
			Content: *req.Content,
		}); err != nil {
			s.storeFailure(c, msgPostCreateFailed, err)
			return
		}

		respondMessage(c, http.StatusCreated, msgPostCreated)
	}
}

// handleListPosts は投稿一覧を作成日時の降順で返すハンドラを返す。
func (s *Server) handleListPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := s.queries.ListPosts(c.Request.Context())
		if err != nil {
			s.storeFailure(c, msgPostListFailed, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": toPostSummaries(rows)})
	}
}

// handleGetPost は投稿詳細を返すハンドラを返す。
func (s *Server) handleGetPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := pathID(c, "postId")
		if !ok {
			respondError(c, http.StatusNotFound, msgPostNotFound)
			return
		}

		post, err := s.queries.GetPostDetail(c.Request.Context(), postID)
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, msgPostNotFound)
			return
		}
		if err != nil {
			s.storeFailure(c, msgPostListFailed, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"post": toPostDetail(post)})
	}
}

// handleUpdatePost は投稿更新を処理するハンドラを返す。
// 投稿者本人のみ更新でき、指定された項目がすべて現在と同じ場合は更新しない。
func (s *Server) handleUpdatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusPreconditionFailed, msgInvalidData)
			return
		}
		if msg, ok := req.validate(true); !ok {
			respondError(c, http.StatusPreconditionFailed, msg)
			return
		}

		post, ok := s.loadPost(c, msgPostUpdateFailed)
		if !ok {
			return
		}
		if post.UserID != currentIdentity(c).UserID {
			respondError(c, http.StatusForbidden, msgPostUpdateForbidden)
			return
		}

		title, content := post.Title, post.Content
		if req.Title != nil {
			title = *req.Title
		}
		if req.Content != nil {
			content = *req.Content
		}
		if title == post.Title && content == post.Content {
			respondError(c, http.StatusUnauthorized, msgPostNotUpdated)
			return
		}

		if err := s.queries.UpdatePost(c.Request.Context(), boarddb.UpdatePostParams{
			Title:   title,
			Content: content,
			ID:      post.ID,
		}); err != nil {
			s.storeFailure(c, msgPostUpdateFailed, err)
			return
		}

		respondMessage(c, http.StatusOK, msgPostUpdated)
	}
}

// handleDeletePost は投稿削除を処理するハンドラを返す。
// コメントといいねは外部キーの連鎖で削除される。
func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, ok := s.loadPost(c, msgPostDeleteFailed)
		if !ok {
			return
		}
		if post.UserID != currentIdentity(c).UserID {
			respondError(c, http.StatusForbidden, msgPostDeleteForbidden)
			return
		}

		n, err := s.queries.DeletePost(c.Request.Context(), post.ID)
		if err != nil {
			s.storeFailure(c, msgPostDeleteFailed, err)
			return
		}
		if n == 0 {
			respondError(c, http.StatusUnauthorized, msgPostNotDeleted)
			return
		}

		respondMessage(c, http.StatusOK, msgPostDeleted)
	}
}

// loadPost はパスパラメータ postId の投稿を取得する。
// 取得できない場合はレスポンスを書き込んで false を返す。
func (s *Server) loadPost(c *gin.Context, failureMsg string) (boarddb.Post, bool) {
	postID, ok := pathID(c, "postId")
	if !ok {
		respondError(c, http.StatusNotFound, msgPostNotFound)
		return boarddb.Post{}, false
	}

	post, err := s.queries.GetPostByID(c.Request.Context(), postID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, msgPostNotFound)
		return boarddb.Post{}, false
	}
	if err != nil {
		s.storeFailure(c, failureMsg, err)
		return boarddb.Post{}, false
	}
	return post, true
}
