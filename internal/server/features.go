package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type speakingFeatureResponse struct {
	Key          string `json:"key"`
	Endpoint     string `json:"endpoint"`
	SttModel     string `json:"stt_model"`
	TextModel    string `json:"text_model"`
	SystemPrompt string `json:"system_prompt"`
}

type writingFeatureResponse struct {
	Key          string `json:"key"`
	Endpoint     string `json:"endpoint"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
}

func (s *Server) SpeakingFeature(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	grant, err := s.apiKeySvc.Access(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	settings := s.features.Get().Speaking
	c.JSON(http.StatusOK, speakingFeatureResponse{
		Key:          grant.Key,
		Endpoint:     settings.Endpoint,
		SttModel:     settings.SttModel,
		TextModel:    settings.TextModel,
		SystemPrompt: settings.SystemPrompt,
	})
}

func (s *Server) WritingFeature(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	grant, err := s.apiKeySvc.Access(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	settings := s.features.Get().Writing
	c.JSON(http.StatusOK, writingFeatureResponse{
		Key:          grant.Key,
		Endpoint:     settings.Endpoint,
		Model:        settings.Model,
		SystemPrompt: settings.SystemPrompt,
	})
}
