package assistant

import (
	"reflect"
	"testing"

	"fiesta/fiesta/sources/psql/models"
)

func TestExtractTags(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Har vi en booking i weekenden?", TaskType: "planlægning"},
		{Role: models.RoleUser, Content: "Og send en faktura til kunden", TaskType: "kundeservice"},
	}
	got := ExtractTags(messages)
	want := []string{"planlægning", "events", "kundeservice", "økonomi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestExtractTagsDeduplicates(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "event i morgen"},
		{Role: models.RoleUser, Content: "endnu et event"},
	}
	got := ExtractTags(messages)
	if len(got) != 1 || got[0] != "events" {
		t.Errorf("expected single events tag, got %v", got)
	}
}

func TestExtractTagsDeterministic(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "menu og facebook og faktura"},
	}
	first := ExtractTags(messages)
	for i := 0; i < 20; i++ {
		if !reflect.DeepEqual(ExtractTags(messages), first) {
			t.Fatal("tag order is not stable across calls")
		}
	}
}

func TestExtractTagsEmpty(t *testing.T) {
	if got := ExtractTags(nil); len(got) != 0 {
		t.Errorf("expected no tags, got %v", got)
	}
}
