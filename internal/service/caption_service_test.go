package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestSuggestCaption(t *testing.T) {
	gen := &fakeGenerator{reply: "\"Fresh bread, every morning.\""}
	s := NewCaptionService(gen)

	got, err := s.SuggestCaption(context.Background(), models.CaptionRequest{
		Caption:   "bread",
		Platforms: []string{"instagram", "facebook"},
		Tone:      "warm",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh bread, every morning.", got)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "instagram, facebook")
	assert.Contains(t, gen.prompts[0], "warm tone")
	assert.Contains(t, gen.prompts[0], "bread")
}

func TestSuggestHashtags(t *testing.T) {
	gen := &fakeGenerator{reply: "#bakery #Bread #bread, #morning"}
	s := NewCaptionService(gen)

	got, err := s.SuggestHashtags(context.Background(), models.CaptionRequest{Caption: "bread"})
	require.NoError(t, err)
	assert.Equal(t, []string{"#bakery", "#Bread", "#morning"}, got)
}

func TestCaptionGeneratorFailure(t *testing.T) {
	s := NewCaptionService(&fakeGenerator{err: errors.New("quota exceeded")})

	_, err := s.SuggestCaption(context.Background(), models.CaptionRequest{})
	assert.ErrorIs(t, err, models.ErrCollaboratorFailure)
	_, err = s.SuggestHashtags(context.Background(), models.CaptionRequest{})
	assert.ErrorIs(t, err, models.ErrCollaboratorFailure)
}

func TestCaptionsDisabled(t *testing.T) {
	s := NewCaptionService(nil)

	_, err := s.SuggestCaption(context.Background(), models.CaptionRequest{})
	assert.ErrorIs(t, err, ErrCaptionsDisabled)
	_, err = s.SuggestHashtags(context.Background(), models.CaptionRequest{})
	assert.ErrorIs(t, err, ErrCaptionsDisabled)

	_, err = NewGeminiGenerator(context.Background(), "", "gemini-2.0-flash")
	assert.ErrorIs(t, err, ErrCaptionsDisabled)
}

func TestParseHashtags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"#a #b #A", []string{"#a", "#b"}},
		{"1. #coffee\n2. #latte", []string{"#coffee", "#latte"}},
		{"coffee, latte; espresso", []string{"#coffee", "#latte", "#espresso"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHashtags(tt.in))
		})
	}
}

func TestParseHashtagsCapsResult(t *testing.T) {
	var in string
	for i := 0; i < 50; i++ {
		in += fmt.Sprintf("#tag%d ", i)
	}
	assert.Len(t, ParseHashtags(in), maxHashtags)
}
