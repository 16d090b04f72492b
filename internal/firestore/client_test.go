package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-site/internal/contact"
)

var (
	_ contact.Repository = (*Client)(nil)
	_ contact.Pruner     = (*Client)(nil)
)

func TestSubmissionMapping(t *testing.T) {
	in := contact.Submission{
		ID:        "5b0c",
		Name:      "Ruth",
		Email:     "ruth@example.com",
		Message:   "Hello",
		CreatedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}

	m := submissionToMap(in)
	assert.NotContains(t, m, "phone")
	assert.NotContains(t, m, "subject")

	out, err := mapToSubmission(m)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMapToSubmissionBadTimestamp(t *testing.T) {
	_, err := mapToSubmission(map[string]interface{}{"created_at": "yesterday"})
	assert.Error(t, err)
}

type fakeJob struct{ err error }

func (j fakeJob) Results() (*firestore.WriteResult, error) {
	if j.err != nil {
		return nil, j.err
	}
	return &firestore.WriteResult{}, nil
}

func TestCountWritten(t *testing.T) {
	n, err := countWritten([]writeJob{fakeJob{}, fakeJob{}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	denied := errors.New("permission denied")
	n, err = countWritten([]writeJob{fakeJob{}, fakeJob{err: denied}, fakeJob{err: errors.New("later")}})
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, denied)

	n, err = countWritten(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// TestEmulator runs against a Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	c, err := New(ctx, "church-site-test", fmt.Sprintf("submissions-%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Ruth", "Naomi", "Boaz"} {
		require.NoError(t, c.Save(ctx, contact.Submission{
			ID:        fmt.Sprintf("s%d", i),
			Name:      name,
			Email:     "x@example.com",
			Message:   "Hello",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	subs, err := c.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Boaz", subs[0].Name)
	assert.Equal(t, "Naomi", subs[1].Name)

	n, err := c.DeleteBefore(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	subs, err = c.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Boaz", subs[0].Name)
}
