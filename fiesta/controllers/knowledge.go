package controllers

import (
	"context"
	"io"

	"fiesta/fiesta/sources/storage"
)

type KnowledgeController struct {
	store *storage.KnowledgeStore
}

func NewKnowledgeController(store *storage.KnowledgeStore) *KnowledgeController {
	return &KnowledgeController{store: store}
}

func (c *KnowledgeController) Upload(ctx context.Context, userID int, name, contentType string, body io.Reader, size int64) (string, error) {
	return c.store.Upload(ctx, userID, name, contentType, body, size)
}

func (c *KnowledgeController) Get(ctx context.Context, userID int, name string) (io.ReadCloser, error) {
	return c.store.Get(ctx, userID, name)
}

func (c *KnowledgeController) List(ctx context.Context, userID int) ([]storage.Document, error) {
	return c.store.List(ctx, userID)
}

func (c *KnowledgeController) Delete(ctx context.Context, userID int, name string) error {
	return c.store.Delete(ctx, userID, name)
}
