// Package assistant encapsule l'agent conversationnel hébergé qui
// répond aux questions des visiteurs du site.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL     = "https://api.mistral.ai"
	conversationPath   = "/v1/conversations"
	defaultHTTPTimeout = 30 * time.Second

	// Seul point de relance automatique du portail : un petit nombre
	// d'essais à délai fixe, puis le message statique de repli.
	maxTentatives  = 3
	delaiTentative = 2 * time.Second
)

// MessageRepli est servi quand l'agent reste injoignable.
const MessageRepli = "Notre assistant est momentanément indisponible. " +
	"Vous pouvez nous écrire via le formulaire de contact, nous reviendrons vers vous rapidement."

type Client struct {
	apiKey  string
	agentID string
	baseURL string
	http    *http.Client
	pause   func(time.Duration)
}

// NewClient construit le client depuis la configuration injectée.
// Clé absente = assistant désactivé, l'appelant décide du repli.
func NewClient(apiKey, agentID, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("clé API assistant manquante")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		agentID: agentID,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		pause: time.Sleep,
	}, nil
}

type ConversationRequest struct {
	AgentID string      `json:"agent_id"`
	Inputs  interface{} `json:"inputs"`
}

type ConversationResponse struct {
	ID      string               `json:"id"`
	Object  string               `json:"object"`
	Status  string               `json:"status"`
	Message ConversationPiece    `json:"message"`
	Outputs []ConversationOutput `json:"outputs"`
	Output  any                  `json:"output"`
}

type ConversationPiece struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ConversationOutput struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Role    string              `json:"role"`
	Content []ConversationChunk `json:"content"`
}

type ConversationChunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Client) envoyer(ctx context.Context, prompt string) (*ConversationResponse, error) {
	if c.agentID == "" {
		return nil, errors.New("identifiant d'agent manquant")
	}
	payload := ConversationRequest{
		AgentID: c.agentID,
		Inputs:  prompt,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+conversationPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("assistant statut %d", resp.StatusCode)
	}

	var out ConversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Repondre interroge l'agent en retentant à délai fixe, puis rend le
// message de repli. Le second retour indique si la réponse vient bien
// de l'agent.
func (c *Client) Repondre(ctx context.Context, prompt string) (string, bool) {
	for tentative := 1; tentative <= maxTentatives; tentative++ {
		resp, err := c.envoyer(ctx, prompt)
		if err == nil {
			if texte := resp.FirstText(); texte != "" {
				return texte, true
			}
			err = errors.New("réponse vide")
		}
		if tentative < maxTentatives {
			select {
			case <-ctx.Done():
				return MessageRepli, false
			default:
			}
			c.pause(delaiTentative)
		}
	}
	return MessageRepli, false
}

func (r *ConversationResponse) FirstText() string {
	if r == nil {
		return ""
	}
	if r.Message.Content != "" {
		return r.Message.Content
	}
	for _, out := range r.Outputs {
		for _, chunk := range out.Content {
			if chunk.Text != "" {
				return chunk.Text
			}
		}
	}
	if text, ok := r.Output.(string); ok && text != "" {
		return text
	}
	return ""
}
