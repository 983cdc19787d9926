package templates

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	if len(seed) != 2 {
		t.Fatalf("expected 2 seed templates, got %d", len(seed))
	}
	if seed[0].Alias != "first-template" || !seed[0].Active {
		t.Errorf("unexpected first seed: %+v", seed[0])
	}
	if seed[1].Alias != "second-template" || seed[1].Active {
		t.Errorf("unexpected second seed: %+v", seed[1])
	}
}

func TestLoadSeedFile(t *testing.T) {
	got, err := LoadSeedFile(filepath.Join("testdata", "seed.yaml"))
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}

	want := []Template{
		{
			ID:       10,
			Name:     "Welcome",
			Alias:    "team/welcome",
			Subject:  "Welcome to {{team.name}}",
			HTMLBody: "<p>Hi {{user.first}}</p>",
			TextBody: "Hi {{user.first}}",
			Active:   true,
		},
		{
			Name:     "Receipt",
			Alias:    "receipt",
			Subject:  "Receipt {{order.id}}",
			HTMLBody: "{{#items}}<li>{{name}}</li>{{/items}}",
			TextBody: "{{#items}}- {{name}}\n{{/items}}",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("seed mismatch (-want +got):\n%s", diff)
	}

	store := NewInMemoryStore()
	NewService(store, nil, nil).Seed(context.Background(), got)
	receipt, err := NewResolver(store).ByAlias(context.Background(), "receipt")
	if err != nil {
		t.Fatalf("ByAlias: %v", err)
	}
	if receipt.ID != 2 {
		t.Errorf("expected assigned id 2, got %d", receipt.ID)
	}
}

func TestLoadSeedFile_Missing(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	cases := map[string]string{
		"not a list":  "name: x",
		"negative id": "- id: -1\n  name: x",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
