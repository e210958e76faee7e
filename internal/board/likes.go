package board

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	boarddb "github.com/nao1215/board/internal/board/db"
)

// handleToggleLike は投稿のいいねを切り替えるハンドラを返す。
// 自分の投稿にはいいねできない。
func (s *Server) handleToggleLike() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, ok := s.loadPost(c, msgLikeFailed)
		if !ok {
			return
		}

		userID := currentIdentity(c).UserID
		if post.UserID == userID {
			respondError(c, http.StatusUnauthorized, msgLikeOwnPost)
			return
		}

		added, err := s.toggleLike(c.Request.Context(), userID, post.ID)
		if err != nil {
			s.storeFailure(c, msgLikeFailed, err)
			return
		}

		if added {
			respondMessage(c, http.StatusOK, msgLikeAdded)
			return
		}
		respondMessage(c, http.StatusOK, msgLikeRemoved)
	}
}

// toggleLike は (userID, postID) のいいねを1つのトランザクションで切り替える。
// 登録した場合は true、取り消した場合は false を返す。
func (s *Server) toggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	qtx := s.queries.WithTx(tx)
	removed, err := qtx.DeleteLike(ctx, boarddb.DeleteLikeParams{UserID: userID, PostID: postID})
	if err != nil {
		return false, fmt.Errorf("いいねの取り消しに失敗: %w", err)
	}
	if removed == 0 {
		if err := qtx.CreateLike(ctx, boarddb.CreateLikeParams{UserID: userID, PostID: postID}); err != nil {
			return false, fmt.Errorf("いいねの登録に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("コミットに失敗: %w", err)
	}
	return removed == 0, nil
}

// handleListLikedPosts はログイン中ユーザーがいいねした投稿を返すハンドラを返す。
func (s *Server) handleListLikedPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := s.queries.ListLikedPosts(c.Request.Context(), currentIdentity(c).UserID)
		if err != nil {
			s.storeFailure(c, msgLikedPostsListFailed, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": toLikedPostSummaries(rows)})
	}
}
