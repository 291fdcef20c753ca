package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/markdown"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// deletedCommentMask replaces the content of soft-deleted comments that
// still anchor replies.
const deletedCommentMask = "[deleted]"

// CommentRequest defines the structure for comment creation requests
type CommentRequest struct {
	Content       string `json:"content"`
	ParentID      *uint  `json:"parent_id"`
	IsPrivate     bool   `json:"is_private"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
	GuestPassword string `json:"guest_password"`
}

// CommentUpdateRequest defines the structure for comment update/delete
// requests. GuestPassword authorizes guests in place of a bearer token.
type CommentUpdateRequest struct {
	Content       string `json:"content"`
	IsPrivate     *bool  `json:"is_private"`
	GuestPassword string `json:"guest_password"`
}

// hashIP returns the sha256 hex digest of the submitter IP. The raw IP is
// never persisted.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// buildCommentTree nests flat rows (ordered oldest-first) into a reply
// tree. Soft-deleted nodes keep their slot with masked content so replies
// stay anchored; deleted nodes without replies are dropped. Returns the
// top-level nodes and the count of visible (non-deleted) comments.
func buildCommentTree(comments []model.Comment) ([]*model.Comment, int64) {
	nodes := make(map[uint]*model.Comment, len(comments))
	order := make([]*model.Comment, 0, len(comments))
	for i := range comments {
		node := comments[i]
		node.Replies = nil
		if node.IsDeleted {
			node.Content = deletedCommentMask
			node.GuestName = ""
			node.GuestEmail = ""
			node.AuthorID = nil
		}
		nodes[node.ID] = &node
		order = append(order, &node)
	}

	var tops []*model.Comment
	var visible int64
	for _, node := range order {
		if !node.IsDeleted {
			visible++
		}
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		tops = append(tops, node)
	}

	// Deleted leaves carry no information; prune them bottom-up.
	tops = pruneDeleted(tops)
	return tops, visible
}

func pruneDeleted(nodes []*model.Comment) []*model.Comment {
	kept := nodes[:0]
	for _, node := range nodes {
		node.Replies = pruneDeleted(node.Replies)
		if node.IsDeleted && len(node.Replies) == 0 {
			continue
		}
		kept = append(kept, node)
	}
	return kept
}

// ListPostComments handles the public nested comment listing for a post
func ListPostComments(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	postID, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		return httperr.Validation("invalid post id")
	}

	query := database.GetDB().
		Where("tenant_id = ? AND resource_type = ? AND resource_id = ?",
			tenant.ID, model.ResourceTypePost, uint(postID)).
		Where("status = ?", model.CommentStatusApproved)
	if !isAdmin(c) {
		query = query.Where("is_private = ?", false)
	}

	var comments []model.Comment
	if result := query.Order("created_at ASC, id ASC").Find(&comments); result.Error != nil {
		log.Error("Failed to list comments", zap.Uint64("post_id", postID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	tree, totalCount := buildCommentTree(comments)
	if tree == nil {
		tree = []*model.Comment{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"comments":   tree,
			"totalCount": totalCount,
		},
	})
}

// CreateComment handles comment creation by authenticated users or guests
func CreateComment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	postID, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		return httperr.Validation("invalid post id")
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return httperr.Validation("content must not be empty")
	}

	claims := middleware.ClaimsFromContext(c)
	if claims == nil && strings.TrimSpace(req.GuestName) == "" {
		return httperr.Validation("guest_name is required for guest comments")
	}

	// A parent must be a comment on the same post in the same tenant.
	if req.ParentID != nil {
		var parent model.Comment
		result := database.GetDB().
			Where("id = ? AND tenant_id = ? AND resource_type = ? AND resource_id = ?",
				*req.ParentID, tenant.ID, model.ResourceTypePost, uint(postID)).
			First(&parent)
		if result.Error != nil {
			log.Warn("Comment parent rejected",
				zap.Uint("parent_id", *req.ParentID),
				zap.Uint64("post_id", postID))
			return httperr.Validation("parent comment does not exist on this post")
		}
	}

	comment := model.Comment{
		TenantID:     tenant.ID,
		ResourceType: model.ResourceTypePost,
		ResourceID:   uint(postID),
		Content:      markdown.SanitizeComment(content),
		ParentID:     req.ParentID,
		IsPrivate:    req.IsPrivate,
		IPHash:       hashIP(c.RealIP()),
	}

	if claims != nil {
		userID := claims.UserID
		comment.AuthorID = &userID
		// Known authors skip the moderation queue.
		comment.Status = model.CommentStatusApproved
	} else {
		comment.GuestName = strings.TrimSpace(req.GuestName)
		comment.GuestEmail = strings.TrimSpace(req.GuestEmail)
		comment.Status = model.CommentStatusPending
		if req.GuestPassword != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.GuestPassword), bcrypt.DefaultCost)
			if err != nil {
				return httperr.Internal(err)
			}
			comment.GuestPasswordHash = string(hash)
		}
	}

	if result := database.GetDB().Create(&comment); result.Error != nil {
		log.Error("Failed to create comment", zap.Uint64("post_id", postID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	prometheus.RecordCommentOperation("create")
	log.Info("Comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint64("post_id", postID),
		zap.Bool("guest", comment.IsGuest()))
	return c.JSON(http.StatusCreated, echo.Map{"data": comment})
}

// loadTenantComment fetches a comment by id scoped to the resolved tenant.
func loadTenantComment(c echo.Context, tenant *model.Tenant) (*model.Comment, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, httperr.Validation("invalid comment id")
	}

	var comment model.Comment
	result := database.GetDB().
		Where("id = ? AND tenant_id = ?", uint(id), tenant.ID).
		First(&comment)
	if result.Error != nil {
		return nil, httperr.NotFound("comment")
	}
	return &comment, nil
}

// guestPasswordMatches checks a guest credential against the stored hash.
// Comments created without a password can never be modified by guests.
func guestPasswordMatches(comment *model.Comment, password string) bool {
	if comment.GuestPasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(comment.GuestPasswordHash), []byte(password)) == nil
}

// UpdateComment handles comment edits by the author or a guest with the
// matching password
func UpdateComment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	comment, err := loadTenantComment(c, tenant)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return httperr.NotFound("comment")
	}

	var req CommentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	claims := middleware.ClaimsFromContext(c)
	if comment.IsGuest() {
		if !guestPasswordMatches(comment, req.GuestPassword) {
			return httperr.Forbidden("guest password does not match")
		}
	} else {
		if claims == nil || comment.AuthorID == nil || claims.UserID != *comment.AuthorID {
			return httperr.Forbidden("only the author may update this comment")
		}
	}

	if content := strings.TrimSpace(req.Content); content != "" {
		comment.Content = markdown.SanitizeComment(content)
	}
	if req.IsPrivate != nil {
		comment.IsPrivate = *req.IsPrivate
	}

	if result := database.GetDB().Save(comment); result.Error != nil {
		log.Error("Failed to update comment", zap.Uint("comment_id", comment.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	prometheus.RecordCommentOperation("update")
	log.Info("Comment updated", zap.Uint("comment_id", comment.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": comment})
}

// DeleteComment handles soft deletion by the author, an admin, or a guest
// with the matching password. The row is retained so replies keep their
// anchor.
func DeleteComment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	comment, err := loadTenantComment(c, tenant)
	if err != nil {
		return err
	}

	var req CommentUpdateRequest
	if err := c.Bind(&req); err != nil && c.Request().ContentLength > 0 {
		return httperr.Validation("invalid request body")
	}

	claims := middleware.ClaimsFromContext(c)
	authorized := false
	switch {
	case claims != nil && claims.Role == model.RoleAdmin:
		authorized = true
	case comment.IsGuest():
		authorized = guestPasswordMatches(comment, req.GuestPassword)
	case claims != nil && comment.AuthorID != nil && claims.UserID == *comment.AuthorID:
		authorized = true
	}
	if !authorized {
		return httperr.Unauthorized("not authorized to delete this comment")
	}

	comment.IsDeleted = true
	if result := database.GetDB().Save(comment); result.Error != nil {
		log.Error("Failed to soft-delete comment", zap.Uint("comment_id", comment.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	prometheus.RecordCommentOperation("soft_delete")
	log.Info("Comment soft-deleted", zap.Uint("comment_id", comment.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted"})
}
