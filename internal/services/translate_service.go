// File: internal/services/translate_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTargetLanguage = "zh-CN"

// TranslationResult carries one translated text with its detected source.
type TranslationResult struct {
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// TranslateService calls a Google-Translate-compatible endpoint. When no API
// key is configured the input passes through untranslated, so the endpoint
// degrades instead of failing.
type TranslateService struct {
	apiKey  string
	baseURL string
	client  *resty.Client
	logger  Logger
}

func NewTranslateService(apiKey, baseURL string, logger Logger) *TranslateService {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &TranslateService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Translate translates text into targetLanguage (defaulted when empty).
func (s *TranslateService) Translate(ctx context.Context, text, targetLanguage string) (*TranslationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text is empty")
	}
	if targetLanguage == "" {
		targetLanguage = defaultTargetLanguage
	}

	if s.apiKey == "" {
		s.logger.Warn("translate API key not configured, passing text through")
		return &TranslationResult{
			TranslatedText: text,
			SourceLanguage: "auto",
			TargetLanguage: targetLanguage,
		}, nil
	}

	var parsed googleTranslateResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(map[string]interface{}{
			"q":      text,
			"target": targetLanguage,
			"format": "text",
		}).
		SetResult(&parsed).
		SetError(&parsed).
		Post(s.baseURL)
	if err != nil {
		s.logger.Error("translate API unreachable", "error", err)
		return nil, fmt.Errorf("translate request failed: %w", err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		s.logger.Error("translate API returned error", "status_code", resp.StatusCode(), "message", msg)
		return nil, fmt.Errorf("translate API error: %s", msg)
	}

	if len(parsed.Data.Translations) == 0 {
		return nil, errors.New("no translations in response")
	}

	translation := parsed.Data.Translations[0]
	source := translation.DetectedSourceLanguage
	if source == "" {
		source = "auto"
	}

	return &TranslationResult{
		TranslatedText: translation.TranslatedText,
		SourceLanguage: source,
		TargetLanguage: targetLanguage,
	}, nil
}
