package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pagedomain "github.com/speaklab/speaklab/internal/page/domain"
)

func (s *Server) GetPage(c *gin.Context) {
	page, err := s.pageSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetHomePage(c *gin.Context) {
	page, err := s.pageSvc.Home(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) ListPages(c *gin.Context) {
	pages, err := s.pageSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pages})
}

func (s *Server) CreatePage(c *gin.Context) {
	var req pagedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.pageSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

func (s *Server) UpdatePage(c *gin.Context) {
	var req pagedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.pageSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) DeletePage(c *gin.Context) {
	if err := s.pageSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
