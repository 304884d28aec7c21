package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocuments_DefaultName(t *testing.T) {
	db := &DB{}

	assert.Equal(t, DefaultDocument, db.Documents("").Name)
	assert.Equal(t, "other", db.Documents("other").Name)
}

func TestClose_NilPool(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, db.Close)
}
