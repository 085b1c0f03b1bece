package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ZaguanLabs/polyglot"
)

// GlossaryEntry is one source/target pair in a glossary.
type GlossaryEntry struct {
	Source string
	Target string
}

type createGlossaryRequest struct {
	Name       string      `json:"name"`
	SourceLang string      `json:"source_lang"`
	TargetLang string      `json:"target_lang"`
	Entries    [][2]string `json:"entries"`
}

type listGlossariesResponse struct {
	Glossaries []polyglot.GlossaryInfo `json:"glossaries"`
}

// CreateGlossary creates a server-side glossary and returns its metadata.
func (c *Client) CreateGlossary(ctx context.Context, name, sourceLang, targetLang string, entries []GlossaryEntry) (*polyglot.GlossaryInfo, error) {
	req := createGlossaryRequest{
		Name:       name,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Entries:    make([][2]string, len(entries)),
	}
	for i, e := range entries {
		req.Entries[i] = [2]string{e.Source, e.Target}
	}

	var info polyglot.GlossaryInfo
	if err := c.do(ctx, http.MethodPost, "/glossaries", nil, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListGlossaries lists the account's glossaries.
func (c *Client) ListGlossaries(ctx context.Context) ([]polyglot.GlossaryInfo, error) {
	var resp listGlossariesResponse
	if err := c.do(ctx, http.MethodGet, "/glossaries", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Glossaries, nil
}

// DeleteGlossary removes a glossary by id.
func (c *Client) DeleteGlossary(ctx context.Context, glossaryID string) error {
	return c.do(ctx, http.MethodDelete, "/glossaries/"+url.PathEscape(glossaryID), nil, nil, nil)
}
