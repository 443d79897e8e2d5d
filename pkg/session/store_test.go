package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

func TestCreateAndTranscript(t *testing.T) {
	store := NewStore()
	seed := []models.ChatMessage{{Role: models.RoleUser, Content: "hello"}}

	id := store.Create(seed)
	require.NotEmpty(t, id)

	got, err := store.Transcript(id)
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestAppendExtendsTranscript(t *testing.T) {
	store := NewStore()
	id := store.Create(nil)

	require.NoError(t, store.Append(id,
		models.ChatMessage{Role: models.RoleAssistant, Content: "q"},
		models.ChatMessage{Role: models.RoleUser, Content: "a"},
	))

	got, err := store.Transcript(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q", got[0].Content)
	assert.Equal(t, "a", got[1].Content)
}

func TestUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Transcript("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Append("nope", models.ChatMessage{Role: models.RoleUser, Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranscriptReturnsCopy(t *testing.T) {
	store := NewStore()
	id := store.Create([]models.ChatMessage{{Role: models.RoleUser, Content: "original"}})

	got, err := store.Transcript(id)
	require.NoError(t, err)
	got[0].Content = "mutated"

	again, err := store.Transcript(id)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewStore()
	id := store.Create(nil)

	store.Delete(id)
	store.Delete(id)

	_, err := store.Transcript(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentAppends(t *testing.T) {
	store := NewStore()
	id := store.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Append(id, models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("m%d", n)})
		}(i)
	}
	wg.Wait()

	got, err := store.Transcript(id)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
