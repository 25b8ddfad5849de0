package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"jobtrack-backend/internal/application/domain"
)

// TokenUpdateFunc is a callback invoked when the oauth token is refreshed,
// so the new access token can be persisted.
type TokenUpdateFunc func(*oauth2.Token) error

type Service struct {
	clientID     string
	clientSecret string
	accessToken  string
	refreshToken string
	onRefresh    TokenUpdateFunc
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret, accessToken, refreshToken string, onRefresh TokenUpdateFunc) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		onRefresh:    onRefresh,
	}
}

// getGmailService creates the Gmail API client with the configured tokens.
func (s *Service) getGmailService(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if s.refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: s.onRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return srv, nil
}

// candidateQueryTerms narrows the inbox to email that could plausibly carry
// an application signal, bounding downstream classifier spend.
const candidateQueryTerms = `(subject:(application OR interview OR offer OR position OR "thank you for applying") OR "your application" OR "applying to" OR "we regret")`

// FetchCandidateMessages lists recent candidate messages and resolves each to
// a full EmailMessage. An empty inbox returns an empty slice, not an error.
func (s *Service) FetchCandidateMessages(ctx context.Context, maxResults, daysBack int) ([]*domain.EmailMessage, error) {
	srv, err := s.getGmailService(ctx)
	if err != nil {
		return nil, err
	}

	user := "me"

	q := candidateQueryTerms
	if daysBack > 0 {
		q = fmt.Sprintf("newer_than:%dd %s", daysBack, q)
	}

	requestLimit := int64(maxResults)
	if requestLimit <= 0 {
		requestLimit = 50
	}
	if requestLimit > 500 {
		requestLimit = 500 // Gmail API maximum
	}

	listResp, err := srv.Users.Messages.List(user).Q(q).MaxResults(requestLimit).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(listResp.Messages) == 0 {
		return []*domain.EmailMessage{}, nil
	}

	// Fetch full messages in parallel (with reasonable concurrency limit)
	type fetchResult struct {
		msg *domain.EmailMessage
		err error
	}

	resultChan := make(chan fetchResult, len(listResp.Messages))
	semaphore := make(chan struct{}, 10)

	for _, msg := range listResp.Messages {
		go func(msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fullMsg, err := srv.Users.Messages.Get(user, msgID).Format("full").Do()
			if err != nil {
				resultChan <- fetchResult{nil, err}
				return
			}
			resultChan <- fetchResult{convertGmailMessage(fullMsg), nil}
		}(msg.Id)
	}

	messages := make([]*domain.EmailMessage, 0, len(listResp.Messages))
	for i := 0; i < len(listResp.Messages); i++ {
		result := <-resultChan
		if result.err != nil {
			log.Printf("[Gmail] Failed to fetch message: %v", result.err)
			continue
		}
		messages = append(messages, result.msg)
	}

	// Parallel fetching returns messages in random order
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})

	return messages, nil
}

// Helper functions

func convertGmailMessage(msg *gmail.Message) *domain.EmailMessage {
	body, isHTML := getEmailBody(msg.Payload)
	if isHTML {
		body = stripHTML(body)
	}

	return &domain.EmailMessage{
		ID:         msg.Id,
		From:       getHeader(msg.Payload.Headers, "From"),
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Body:       body,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
		Link:       "https://mail.google.com/mail/u/0/#inbox/" + msg.Id,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getEmailBody(payload *gmail.MessagePart) (string, bool) {
	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data), payload.MimeType == "text/html"
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			} else if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	// Prefer plain text: the extractor pattern-matches raw text
	if plainBody != "" {
		return plainBody, false
	}
	return htmlBody, htmlBody != ""
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	// Unescape HTML entities (basic ones)
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	return strings.Join(strings.Fields(s), " ")
}
