package transpiler

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestModIDFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"rubycraft.jar", "rubycraft"},
		{"rubycraft-forge.jar", "rubycraft"},
		{"RubyCraft_Fabric.jar", "rubycraft"},
		{"rubycraft-2.0.1.jar", "rubycraft"},
		{"ruby craft.jar", "ruby_craft"},
		{"/tmp/uploads/abc/rubycraft-neoforge.jar", "rubycraft"},
	}

	for _, tt := range tests {
		if got := ModIDFromFilename(tt.filename); got != tt.want {
			t.Errorf("ModIDFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

// writeTestJar builds a small mod jar with two item textures, one
// block texture, and a shaped recipe.
func writeTestJar(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create jar: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	entries := map[string][]byte{
		"assets/rubycraft/textures/item/ruby.png":         []byte("png-ruby"),
		"assets/rubycraft/textures/item/ruby_sword.png":   []byte("png-sword"),
		"assets/rubycraft/textures/block/ruby_ore.png":    []byte("png-ore"),
		"assets/rubycraft/models/item/ruby.json":          []byte("{}"),
		"data/rubycraft/recipes/ruby_sword.json":          shapedRecipeJSON(t),
		"data/rubycraft/recipes/ruby_smelting.json":       []byte(`{"type":"minecraft:smelting"}`),
		"META-INF/MANIFEST.MF":                            []byte("Manifest-Version: 1.0"),
	}
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close jar: %v", err)
	}
}

func shapedRecipeJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"type":    "minecraft:crafting_shaped",
		"pattern": []string{"R", "R", "S"},
		"key": map[string]any{
			"R": map[string]any{"item": "rubycraft:ruby"},
			"S": map[string]any{"item": "minecraft:stick"},
		},
		"result": map[string]any{"item": "rubycraft:ruby_sword", "count": 1},
	})
	if err != nil {
		t.Fatalf("marshal recipe: %v", err)
	}
	return data
}

func TestAnalyzeCollectsContent(t *testing.T) {
	jarPath := filepath.Join(t.TempDir(), "rubycraft.jar")
	writeTestJar(t, jarPath)

	a := NewAnalyzer(jarPath)
	if a.ModID != "rubycraft" {
		t.Fatalf("expected mod id rubycraft, got %q", a.ModID)
	}
	if err := a.Analyze(); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(a.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(a.Items))
	}
	if len(a.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(a.Blocks))
	}
	if len(a.Recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(a.Recipes))
	}
	if string(a.ItemTextures["ruby"]) != "png-ruby" {
		t.Fatalf("expected ruby texture bytes, got %q", a.ItemTextures["ruby"])
	}
}

func TestAnalyzeClassifiesItems(t *testing.T) {
	jarPath := filepath.Join(t.TempDir(), "rubycraft.jar")
	writeTestJar(t, jarPath)

	a := NewAnalyzer(jarPath)
	if err := a.Analyze(); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	sword := a.Items["ruby_sword"]
	if sword == nil {
		t.Fatal("expected ruby_sword item")
	}
	if !sword.IsTool || sword.MaxStackSize != 1 || sword.MaxDamage != 250 {
		t.Fatalf("expected tool classification, got %+v", sword)
	}

	ruby := a.Items["ruby"]
	if ruby == nil {
		t.Fatal("expected ruby item")
	}
	if ruby.IsTool || ruby.MaxStackSize != 64 {
		t.Fatalf("expected plain item classification, got %+v", ruby)
	}

	ore := a.Blocks["ruby_ore"]
	if ore == nil {
		t.Fatal("expected ruby_ore block")
	}
	if ore.Hardness != 3.0 || !ore.RequiresTool {
		t.Fatalf("expected ore heuristics, got %+v", ore)
	}
}
