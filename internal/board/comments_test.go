package board

import (
	"fmt"
	"net/http"
	"testing"
)

type commentList struct {
	Comments []commentResponse `json:"comments"`
}

func commentPath(postID, commentID int64) string {
	return postPath(postID, fmt.Sprintf("/comments/%d", commentID))
}

// firstCommentID は投稿の最新コメントのIDを返す。
func firstCommentID(t *testing.T, s *Server, postID int64) int64 {
	t.Helper()
	comments := decode[commentList](t, newSession(t, s).do(http.MethodGet, postPath(postID, "/comments"), nil)).Comments
	if len(comments) == 0 {
		t.Fatal("コメントが無い")
	}
	return comments[0].CommentID
}

// TestCreateComment はコメント作成を検証する。
func TestCreateComment(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	alice := loggedIn(t, s, "alice")
	postID := createPost(t, alice, "投稿")

	expectMessage(t, alice.do(http.MethodPost, postPath(postID, "/comments"), map[string]string{"comment": "いいね"}),
		http.StatusCreated, "댓글을 작성하였습니다.")
	expectError(t, alice.do(http.MethodPost, postPath(postID, "/comments"), map[string]string{}),
		http.StatusPreconditionFailed, "데이터 형식이 올바르지 않습니다.")
	expectError(t, alice.do(http.MethodPost, postPath(postID, "/comments"), map[string]string{"comment": ""}),
		http.StatusPreconditionFailed, "댓글의 형식이 일치하지 않습니다.")
	expectError(t, alice.do(http.MethodPost, postPath(999, "/comments"), map[string]string{"comment": "x"}),
		http.StatusNotFound, "게시글이 존재하지 않습니다.")
}

// TestListComments はコメント一覧が投稿ごとに絞り込まれることを検証する。
func TestListComments(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	alice := loggedIn(t, s, "alice")
	p1 := createPost(t, alice, "一つ目")
	p2 := createPost(t, alice, "二つ目")

	alice.do(http.MethodPost, postPath(p1, "/comments"), map[string]string{"comment": "古い"})
	alice.do(http.MethodPost, postPath(p1, "/comments"), map[string]string{"comment": "新しい"})
	alice.do(http.MethodPost, postPath(p2, "/comments"), map[string]string{"comment": "別の投稿"})

	comments := decode[commentList](t, newSession(t, s).do(http.MethodGet, postPath(p1, "/comments"), nil)).Comments
	if len(comments) != 2 {
		t.Fatalf("件数 = %d, want 2", len(comments))
	}
	if comments[0].Comment != "新しい" || comments[1].Comment != "古い" {
		t.Errorf("並び順が不正: %+v", comments)
	}
	if comments[0].Nickname != "alice" {
		t.Errorf("Nickname = %q, want %q", comments[0].Nickname, "alice")
	}

	expectError(t, newSession(t, s).do(http.MethodGet, postPath(999, "/comments"), nil),
		http.StatusNotFound, "게시글이 존재하지 않습니다.")
}

// TestUpdateComment はコメント更新を検証する。
func TestUpdateComment(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	alice := loggedIn(t, s, "alice")
	bob := loggedIn(t, s, "bob")
	p1 := createPost(t, alice, "一つ目")
	p2 := createPost(t, alice, "二つ目")
	alice.do(http.MethodPost, postPath(p1, "/comments"), map[string]string{"comment": "元"})
	commentID := firstCommentID(t, s, p1)

	t.Run("投稿者以外は403が返ること", func(t *testing.T) {
		expectError(t, bob.do(http.MethodPut, commentPath(p1, commentID), map[string]string{"comment": "x"}),
			http.StatusForbidden, "댓글의 수정 권한이 존재하지 않습니다.")
	})

	t.Run("別の投稿のパスでは404が返ること", func(t *testing.T) {
		expectError(t, alice.do(http.MethodPut, commentPath(p2, commentID), map[string]string{"comment": "x"}),
			http.StatusNotFound, "댓글이 존재하지 않습니다.")
	})

	t.Run("存在しないコメントは404が返ること", func(t *testing.T) {
		expectError(t, alice.do(http.MethodPut, commentPath(p1, 999), map[string]string{"comment": "x"}),
			http.StatusNotFound, "댓글이 존재하지 않습니다.")
	})

	t.Run("本人は更新できること", func(t *testing.T) {
		expectMessage(t, alice.do(http.MethodPut, commentPath(p1, commentID), map[string]string{"comment": "新"}),
			http.StatusOK, "댓글을 수정하였습니다.")

		c, err := s.queries.GetCommentByID(t.Context(), commentID)
		if err != nil {
			t.Fatalf("コメントの取得に失敗: %v", err)
		}
		if c.Comment != "新" {
			t.Errorf("Comment = %q, want %q", c.Comment, "新")
		}
	})
}

// TestDeleteComment はコメント削除を検証する。
func TestDeleteComment(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	alice := loggedIn(t, s, "alice")
	bob := loggedIn(t, s, "bob")
	postID := createPost(t, alice, "投稿")
	bob.do(http.MethodPost, postPath(postID, "/comments"), map[string]string{"comment": "bobのコメント"})
	commentID := firstCommentID(t, s, postID)

	expectError(t, alice.do(http.MethodDelete, commentPath(postID, commentID), nil),
		http.StatusForbidden, "댓글의 삭제 권한이 존재하지 않습니다.")
	expectMessage(t, bob.do(http.MethodDelete, commentPath(postID, commentID), nil),
		http.StatusOK, "댓글을 삭제하였습니다.")
	expectError(t, bob.do(http.MethodDelete, commentPath(postID, commentID), nil),
		http.StatusNotFound, "댓글이 존재하지 않습니다.")
}
