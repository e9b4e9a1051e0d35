package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
)

func (s *Server) ListPolicies(c *gin.Context) {
	policies, err := s.policySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (s *Server) CreatePolicy(c *gin.Context) {
	var req policydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	policy, err := s.policySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

func (s *Server) UpdatePolicy(c *gin.Context) {
	var req policydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	policy, err := s.policySvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (s *Server) DeletePolicy(c *gin.Context) {
	if err := s.policySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
