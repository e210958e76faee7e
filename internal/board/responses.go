package board

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	boarddb "github.com/nao1215/board/internal/board/db"
	"github.com/nao1215/board/pkg/auth"
	"github.com/nao1215/board/pkg/middleware"
	"go.uber.org/zap"
)

// クライアントに返すメッセージ。
const (
	msgInvalidRequest       = "요청한 데이터 형식이 올바르지 않습니다."
	msgBadRequest           = "잘못된 요청입니다."
	msgInvalidData          = "데이터 형식이 올바르지 않습니다."
	msgNicknameFormat       = "닉네임의 형식이 일치하지 않습니다."
	msgPasswordFormat       = "패스워드의 형식이 일치하지 않습니다."
	msgPasswordHasNickname  = "패스워드에 닉네임이 포함되어 있습니다."
	msgPasswordMismatch     = "패스워드가 일치하지 않습니다."
	msgDuplicateNickname    = "중복된 닉네임입니다."
	msgDuplicateEmail       = "이미 존재하는 이메일입니다."
	msgSignupSucceeded      = "회원 가입에 성공하였습니다."
	msgLoginIdentifier      = "닉네임 또는 이메일을 입력해주세요."
	msgLoginMismatch        = "닉네임 또는 패스워드를 확인해주세요."
	msgLoginSucceeded       = "로그인 성공"
	msgLoginFailed          = "로그인에 실패하였습니다."
	msgNotLoggedIn          = "로그인 되어있지 않습니다."
	msgLoggedOut            = "로그아웃 되었습니다."
	msgSignoutMismatch      = "비밀번호가 일치하지 않습니다."
	msgSignedOut            = "회원탈퇴가 완료되었습니다."
	msgUserNotFound         = "사용자 정보가 존재하지 않습니다."
	msgPostTitleFormat      = "게시글 제목의 형식이 일치하지 않습니다."
	msgPostContentFormat    = "게시글 내용의 형식이 일치하지 않습니다."
	msgPostCreated          = "게시글 작성에 성공하였습니다."
	msgPostCreateFailed     = "게시글 작성에 실패하였습니다."
	msgPostListFailed       = "게시물 조회에 실패하였습니다."
	msgPostNotFound         = "게시글이 존재하지 않습니다."
	msgPostUpdateForbidden  = "게시물 수정의 권한이 존재하지 않습니다."
	msgPostNotUpdated       = "게시글이 정상적으로 수정되지 않았습니다."
	msgPostUpdated          = "게시글을 수정하였습니다."
	msgPostUpdateFailed     = "게시글 수정에 실패하였습니다."
	msgPostDeleteForbidden  = "게시글의 삭제 권한이 존재하지 않습니다."
	msgPostNotDeleted       = "게시글이 정상적으로 삭제되지 않았습니다."
	msgPostDeleted          = "게시글을 삭제하였습니다."
	msgPostDeleteFailed     = "게시글 삭제에 실패하였습니다."
	msgCommentFormat        = "댓글의 형식이 일치하지 않습니다."
	msgCommentCreated       = "댓글을 작성하였습니다."
	msgCommentCreateFailed  = "댓글 작성에 실패하였습니다."
	msgCommentListFailed    = "댓글 조회에 실패하였습니다."
	msgCommentNotFound      = "댓글이 존재하지 않습니다."
	msgCommentUpdateDenied  = "댓글의 수정 권한이 존재하지 않습니다."
	msgCommentNotUpdated    = "댓글 수정이 정상적으로 처리되지 않았습니다."
	msgCommentUpdated       = "댓글을 수정하였습니다."
	msgCommentUpdateFailed  = "댓글 수정에 실패하였습니다."
	msgCommentDeleteDenied  = "댓글의 삭제 권한이 존재하지 않습니다."
	msgCommentNotDeleted    = "댓글 삭제가 정상적으로 처리되지 않았습니다."
	msgCommentDeleted       = "댓글을 삭제하였습니다."
	msgCommentDeleteFailed  = "댓글 삭제에 실패하였습니다."
	msgLikeOwnPost          = "내 게시글에는 좋아요를 할 수 없습니다."
	msgLikeAdded            = "게시글의 좋아요를 등록하였습니다."
	msgLikeRemoved          = "게시글의 좋아요를 취소하였습니다."
	msgLikeFailed           = "게시글 좋아요에 실패하였습니다."
	msgLikedPostsListFailed = "좋아요 게시글 조회에 실패하였습니다."
)

// respondError はエラーレスポンスを返す。
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"errorMessage": msg})
}

// respondMessage は成功メッセージを返す。
func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// storeFailure はストアの想定外エラーをログに残し、400と操作ごとの失敗メッセージを返す。
func (s *Server) storeFailure(c *gin.Context, msg string, err error) {
	s.logger.Error(msg,
		zap.Error(err),
		zap.String("route", c.FullPath()),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	respondError(c, http.StatusBadRequest, msg)
}

// pathID はパスパラメータを正の整数として取り出す。
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// currentIdentity は認証済みユーザーを取得する。Authミドルウェア配下でのみ使用する。
func currentIdentity(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id
}

// postSummary は一覧に表示する投稿。
type postSummary struct {
	PostID     int64     `json:"postId"`
	UserID     int64     `json:"userId"`
	Nickname   string    `json:"nickname"`
	Title      string    `json:"title"`
	LikesCount int64     `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// postDetail は投稿の詳細。
type postDetail struct {
	PostID     int64     `json:"postId"`
	UserID     int64     `json:"userId"`
	Nickname   string    `json:"nickname"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	LikesCount int64     `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// commentResponse はコメント。
type commentResponse struct {
	CommentID int64     `json:"commentId"`
	UserID    int64     `json:"userId"`
	Nickname  string    `json:"nickname"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// profileResponse はログイン中ユーザーのプロフィール。
type profileResponse struct {
	UserID       int64     `json:"userId"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	Name         string    `json:"name"`
	Age          int64     `json:"age"`
	Gender       string    `json:"gender"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toPostSummaries(rows []boarddb.ListPostsRow) []postSummary {
	posts := make([]postSummary, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, postSummary{
			PostID:     r.ID,
			UserID:     r.UserID,
			Nickname:   r.Nickname,
			Title:      r.Title,
			LikesCount: r.LikesCount,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return posts
}

func toLikedPostSummaries(rows []boarddb.ListLikedPostsRow) []postSummary {
	posts := make([]postSummary, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, postSummary{
			PostID:     r.ID,
			UserID:     r.UserID,
			Nickname:   r.Nickname,
			Title:      r.Title,
			LikesCount: r.LikesCount,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return posts
}

func toPostDetail(r boarddb.GetPostDetailRow) postDetail {
	return postDetail{
		PostID:     r.ID,
		UserID:     r.UserID,
		Nickname:   r.Nickname,
		Title:      r.Title,
		Content:    r.Content,
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toComments(rows []boarddb.ListCommentsByPostIDRow) []commentResponse {
	comments := make([]commentResponse, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, commentResponse{
			CommentID: r.ID,
			UserID:    r.UserID,
			Nickname:  r.Nickname,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return comments
}
