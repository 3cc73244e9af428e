package handler

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/response"
	"AdBoard/internal/service"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AdHandler struct {
	adSvc      service.AdService
	listingSvc service.ListingService
}

func NewAdHandler(adSvc service.AdService, listingSvc service.ListingService) *AdHandler {
	return &AdHandler{
		adSvc:      adSvc,
		listingSvc: listingSvc,
	}
}

// CreateAd 发布广告
func (s *AdHandler) CreateAd(c *gin.Context) {
	var req dto.CreateAdDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	ad, err := s.adSvc.CreateAd(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	msg := "Ad created successfully"
	if ad.Featured {
		msg = "Ad created successfully and featured"
	}
	response.Success(c, dto.AdCreatedDTO{
		Base:         dto.OK(msg),
		AdID:         ad.ID,
		Featured:     ad.Featured,
		QualityScore: ad.QualityScore,
		UserID:       ad.UserID,
		UserName:     ad.UserName,
		ImageCount:   ad.ImageCount,
		VideoCount:   ad.VideoCount,
		CreatedAt:    ad.CreatedAt,
		ExpiresAt:    ad.ExpiresAt,
	})
}

// ListAds 分页列出广告，每次返回都会为本页广告累加浏览量
func (s *AdHandler) ListAds(c *gin.Context) {
	s.list(c, false)
}

// ListFeaturedAds 仅精选广告
func (s *AdHandler) ListFeaturedAds(c *gin.Context) {
	s.list(c, true)
}

func (s *AdHandler) list(c *gin.Context, featuredOnly bool) {
	var q dto.ListAdsQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}

	featured := strings.ToLower(strings.TrimSpace(q.Featured))
	res, err := s.listingSvc.List(c.Request.Context(), service.ListQuery{
		Status:       q.Status,
		UserID:       q.UserID,
		UserName:     q.UserName,
		FeaturedOnly: featuredOnly || featured == "true" || featured == "1",
		Limit:        q.Limit,
		Token:        q.LastKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	ads := make([]dto.AdDTO, 0, len(res.Ads))
	for _, ad := range res.Ads {
		ads = append(ads, toAdDTO(c, ad))
	}
	response.Success(c, dto.AdListDTO{
		Base:      dto.OK(""),
		Ads:       ads,
		Count:     len(ads),
		HasMore:   res.HasMore,
		LastKey:   res.Token,
		Timestamp: now(),
	})
}

// GetAd 单条详情，不计浏览量
func (s *AdHandler) GetAd(c *gin.Context) {
	ad, err := s.adSvc.GetAd(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AdDetailDTO{Base: dto.OK(""), Ad: toAdDTO(c, ad)})
}

// DeleteAd hard=true 时连同媒体一起删除
func (s *AdHandler) DeleteAd(c *gin.Context) {
	var req dto.DeleteAdDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	if !req.Hard {
		if _, err := s.adSvc.SoftDelete(ctx, req.ID, req.UserID); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.AdDeletedDTO{
			Base:       dto.OK("Ad deleted successfully"),
			AdID:       req.ID,
			DeleteType: service.DeleteTypeSoft,
			Timestamp:  now(),
		})
		return
	}

	removal, err := s.adSvc.HardDelete(ctx, req.ID, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AdDeletedDTO{
		Base:          dto.OK("Ad permanently deleted"),
		AdID:          req.ID,
		DeleteType:    service.DeleteTypeHard,
		ImagesRemoved: removal.Removed,
		Errors:        removal.Errors,
		Timestamp:     now(),
	})
}

// LikeAd 点赞数加一
func (s *AdHandler) LikeAd(c *gin.Context) {
	id := c.Param("id")
	likes, err := s.adSvc.Like(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AdLikedDTO{Base: dto.OK(""), AdID: id, Likes: likes})
}

// AddComment 追加评论
func (s *AdHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	id := c.Param("id")
	comment, err := s.adSvc.AddComment(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	var out dto.CommentDTO
	_ = copier.Copy(&out, comment)
	response.Success(c, dto.CommentAddedDTO{Base: dto.OK("Comment added"), AdID: id, Comment: out})
}

func toAdDTO(c *gin.Context, ad *model.Ad) dto.AdDTO {
	var out dto.AdDTO
	if err := copier.Copy(&out, ad); err != nil {
		log.WarnContext(c.Request.Context(), "copy ad to dto failed", "adId", ad.ID, "err", err)
	}
	if out.ImageURLs == nil {
		out.ImageURLs = []string{}
	}
	if out.VideoURLs == nil {
		out.VideoURLs = []string{}
	}
	if out.Comments == nil {
		out.Comments = []dto.CommentDTO{}
	}
	return out
}
