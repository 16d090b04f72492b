package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"church-site/internal/contact"
)

const batchSize = 250 // Stay well under Firestore's 500 operation limit

// Client stores contact submissions in a Firestore collection.
type Client struct {
	client     *firestore.Client
	collection string
}

// New creates a new Firestore client.
func New(ctx context.Context, projectID, collection string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Client{
		client:     client,
		collection: collection,
	}, nil
}

// Close closes the Firestore client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Save writes a submission keyed by its id.
func (c *Client) Save(ctx context.Context, s contact.Submission) error {
	doc := c.client.Collection(c.collection).Doc(s.ID)
	if _, err := doc.Set(ctx, submissionToMap(s)); err != nil {
		return fmt.Errorf("writing submission %s: %w", s.ID, err)
	}
	return nil
}

// List returns up to limit submissions, newest first. A limit of 0 returns all.
func (c *Client) List(ctx context.Context, limit int) ([]contact.Submission, error) {
	query := c.client.Collection(c.collection).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var out []contact.Submission
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating documents: %w", err)
		}

		s, err := mapToSubmission(doc.Data())
		if err != nil {
			return nil, fmt.Errorf("parsing document %s: %w", doc.Ref.ID, err)
		}
		if s.ID == "" {
			s.ID = doc.Ref.ID
		}
		out = append(out, s)
	}
	return out, nil
}

// DeleteBefore removes submissions created before cutoff and returns how many were deleted.
// It stops at the first batch with a failed delete and returns that error.
func (c *Client) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := c.client.Collection(c.collection).Where("created_at", "<", cutoff)
	total := 0

	for {
		iter := query.Limit(batchSize).Documents(ctx)
		batch := c.client.BulkWriter(ctx)
		var jobs []writeJob

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				batch.End()
				n, _ := countWritten(jobs)
				return total + n, fmt.Errorf("iterating documents: %w", err)
			}
			job, err := batch.Delete(doc.Ref)
			if err != nil {
				iter.Stop()
				batch.End()
				n, _ := countWritten(jobs)
				return total + n, fmt.Errorf("queueing delete: %w", err)
			}
			jobs = append(jobs, job)
		}
		iter.Stop()
		batch.End()

		n, err := countWritten(jobs)
		total += n
		if err != nil {
			return total, err
		}
		if len(jobs) < batchSize {
			return total, nil
		}
	}
}

// writeJob is the part of *firestore.BulkWriterJob used to collect results.
type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// countWritten waits for jobs and returns how many succeeded, along with
// the first failure.
func countWritten(jobs []writeJob) (int, error) {
	n := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("deleting document: %w", err)
			}
			continue
		}
		n++
	}
	return n, firstErr
}

// submissionToMap converts a Submission to a Firestore document map.
func submissionToMap(s contact.Submission) map[string]interface{} {
	m := map[string]interface{}{
		"id":         s.ID,
		"name":       s.Name,
		"email":      s.Email,
		"message":    s.Message,
		"created_at": s.CreatedAt,
	}
	if s.Phone != "" {
		m["phone"] = s.Phone
	}
	if s.Subject != "" {
		m["subject"] = s.Subject
	}
	if s.RemoteAddr != "" {
		m["remote_addr"] = s.RemoteAddr
	}
	return m
}

// mapToSubmission converts a Firestore document map to a Submission.
func mapToSubmission(m map[string]interface{}) (contact.Submission, error) {
	s := contact.Submission{}

	if v, ok := m["id"].(string); ok {
		s.ID = v
	}
	if v, ok := m["name"].(string); ok {
		s.Name = v
	}
	if v, ok := m["email"].(string); ok {
		s.Email = v
	}
	if v, ok := m["phone"].(string); ok {
		s.Phone = v
	}
	if v, ok := m["subject"].(string); ok {
		s.Subject = v
	}
	if v, ok := m["message"].(string); ok {
		s.Message = v
	}
	if v, ok := m["remote_addr"].(string); ok {
		s.RemoteAddr = v
	}
	switch v := m["created_at"].(type) {
	case time.Time:
		s.CreatedAt = v.UTC()
	case nil:
	default:
		return s, fmt.Errorf("created_at has unexpected type %T", v)
	}

	return s, nil
}
