package board

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	boarddb "github.com/nao1215/board/internal/board/db"
)

// commentRequest はコメントの作成・更新リクエストのJSON構造。
type commentRequest struct {
	Comment *string `json:"comment"`
}

func (r commentRequest) validate() (string, bool) {
	if r.Comment == nil {
		return msgInvalidData, false
	}
	if strings.TrimSpace(*r.Comment) == "" {
		return msgCommentFormat, false
	}
	return "", true
}

// bindComment はリクエストボディを検証する。不正な場合はレスポンスを書き込む。
func bindComment(c *gin.Context) (string, bool) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusPreconditionFailed, msgInvalidData)
		return "", false
	}
	if msg, ok := req.validate(); !ok {
		respondError(c, http.StatusPreconditionFailed, msg)
		return "", false
	}
	return *req.Comment, true
}

// handleCreateComment はコメント作成を処理するハンドラを返す。
func (s *Server) handleCreateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		comment, ok := bindComment(c)
		if !ok {
			return
		}
		post, ok := s.loadPost(c, msgCommentCreateFailed)
		if !ok {
			return
		}

		if err := s.queries.CreateComment(c.Request.Context(), boarddb.CreateCommentParams{
			PostID:  post.ID,
			UserID:  currentIdentity(c).UserID,
			Comment: comment,
		}); err != nil {
			s.storeFailure(c, msgCommentCreateFailed, err)
			return
		}

		respondMessage(c, http.StatusCreated, msgCommentCreated)
	}
}

// handleListComments は投稿に付いたコメントを作成日時の降順で返すハンドラを返す。
func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, ok := s.loadPost(c, msgCommentListFailed)
		if !ok {
			return
		}

		rows, err := s.queries.ListCommentsByPostID(c.Request.Context(), post.ID)
		if err != nil {
			s.storeFailure(c, msgCommentListFailed, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": toComments(rows)})
	}
}

// handleUpdateComment はコメント更新を処理するハンドラを返す。
func (s *Server) handleUpdateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, ok := bindComment(c)
		if !ok {
			return
		}
		comment, ok := s.loadComment(c, msgCommentUpdateFailed)
		if !ok {
			return
		}
		if comment.UserID != currentIdentity(c).UserID {
			respondError(c, http.StatusForbidden, msgCommentUpdateDenied)
			return
		}

		n, err := s.queries.UpdateComment(c.Request.Context(), boarddb.UpdateCommentParams{
			Comment: text,
			ID:      comment.ID,
		})
		if err != nil {
			s.storeFailure(c, msgCommentUpdateFailed, err)
			return
		}
		if n == 0 {
			respondError(c, http.StatusBadRequest, msgCommentNotUpdated)
			return
		}

		respondMessage(c, http.StatusOK, msgCommentUpdated)
	}
}

// handleDeleteComment はコメント削除を処理するハンドラを返す。
func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		comment, ok := s.loadComment(c, msgCommentDeleteFailed)
		if !ok {
			return
		}
		if comment.UserID != currentIdentity(c).UserID {
			respondError(c, http.StatusForbidden, msgCommentDeleteDenied)
			return
		}

		n, err := s.queries.DeleteComment(c.Request.Context(), comment.ID)
		if err != nil {
			s.storeFailure(c, msgCommentDeleteFailed, err)
			return
		}
		if n == 0 {
			respondError(c, http.StatusBadRequest, msgCommentNotDeleted)
			return
		}

		respondMessage(c, http.StatusOK, msgCommentDeleted)
	}
}

// loadComment はパスパラメータ postId と commentId のコメントを取得する。
// 別の投稿に属するコメントは存在しないものとして扱う。
func (s *Server) loadComment(c *gin.Context, failureMsg string) (boarddb.Comment, bool) {
	post, ok := s.loadPost(c, failureMsg)
	if !ok {
		return boarddb.Comment{}, false
	}

	commentID, ok := pathID(c, "commentId")
	if !ok {
		respondError(c, http.StatusNotFound, msgCommentNotFound)
		return boarddb.Comment{}, false
	}

	comment, err := s.queries.GetCommentByID(c.Request.Context(), commentID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && comment.PostID != post.ID) {
		respondError(c, http.StatusNotFound, msgCommentNotFound)
		return boarddb.Comment{}, false
	}
	if err != nil {
		s.storeFailure(c, failureMsg, err)
		return boarddb.Comment{}, false
	}
	return comment, true
}
