package transpiler

import "testing"

func TestConvertItem(t *testing.T) {
	item := &JavaItem{
		Identifier:   "ruby_sword",
		TextureName:  "ruby_sword",
		MaxStackSize: 1,
		MaxDamage:    250,
		AttackDamage: 4.0,
		IsTool:       true,
	}

	def := ConvertItem(item, "rubycraft")

	body := def["minecraft:item"].(map[string]any)
	desc := body["description"].(map[string]any)
	if desc["identifier"] != "rubycraft:ruby_sword" {
		t.Fatalf("unexpected identifier: %v", desc["identifier"])
	}
	if desc["menu_category"].(map[string]any)["category"] != "equipment" {
		t.Fatalf("expected equipment category for tool")
	}

	components := body["components"].(map[string]any)
	icon := components["minecraft:icon"].(map[string]any)
	if icon["texture"] != "ruby_sword" {
		t.Fatalf("expected icon texture ruby_sword, got %v", icon["texture"])
	}
	if components["minecraft:max_stack_size"] != 1 {
		t.Fatalf("expected stack size 1, got %v", components["minecraft:max_stack_size"])
	}
	durability := components["minecraft:durability"].(map[string]any)
	if durability["max_durability"] != 250 {
		t.Fatalf("expected durability 250, got %v", durability["max_durability"])
	}
	if _, ok := components["minecraft:digger"]; !ok {
		t.Fatal("expected digger component for tool")
	}
}

func TestConvertBlock(t *testing.T) {
	block := &JavaBlock{
		Identifier:  "ruby_ore",
		TextureName: "ruby_ore",
		Hardness:    3.0,
		Resistance:  3.0,
	}

	def := ConvertBlock(block, "rubycraft")

	body := def["minecraft:block"].(map[string]any)
	desc := body["description"].(map[string]any)
	if desc["identifier"] != "rubycraft:ruby_ore" {
		t.Fatalf("unexpected identifier: %v", desc["identifier"])
	}

	components := body["components"].(map[string]any)
	mining := components["minecraft:destructible_by_mining"].(map[string]any)
	if mining["seconds_to_destroy"] != 2.0 {
		t.Fatalf("expected seconds_to_destroy 2.0, got %v", mining["seconds_to_destroy"])
	}
	instances := components["minecraft:material_instances"].(map[string]any)
	tex := instances["*"].(map[string]any)["texture"]
	if tex != "ruby_ore" {
		t.Fatalf("expected texture ruby_ore, got %v", tex)
	}
}

func TestConvertRecipeShaped(t *testing.T) {
	recipe := Recipe{
		ID: "ruby_sword",
		Data: map[string]any{
			"type":    "minecraft:crafting_shaped",
			"pattern": []any{"R", "R", "S"},
			"key": map[string]any{
				"R": map[string]any{"item": "rubycraft:ruby"},
				"S": map[string]any{"item": "minecraft:stick"},
			},
			"result": map[string]any{"item": "othermod:ruby_sword", "count": float64(1)},
		},
	}

	def, ok := ConvertRecipe(recipe, "rubycraft")
	if !ok {
		t.Fatal("expected shaped recipe to convert")
	}

	body := def["minecraft:recipe_shaped"].(map[string]any)
	key := body["key"].(map[string]any)
	if key["R"].(map[string]any)["item"] != "rubycraft:ruby" {
		t.Fatalf("unexpected R key: %v", key["R"])
	}
	// Vanilla ids pass through untouched.
	if key["S"].(map[string]any)["item"] != "minecraft:stick" {
		t.Fatalf("unexpected S key: %v", key["S"])
	}
	// Foreign namespaces are rewritten into the addon's namespace.
	result := body["result"].(map[string]any)
	if result["item"] != "rubycraft:ruby_sword" {
		t.Fatalf("unexpected result item: %v", result["item"])
	}
}

func TestConvertRecipeShapeless(t *testing.T) {
	recipe := Recipe{
		ID: "ruby_dust",
		Data: map[string]any{
			"type": "minecraft:crafting_shapeless",
			"ingredients": []any{
				map[string]any{"item": "ruby"},
			},
			"result": map[string]any{"item": "ruby_dust", "count": float64(2)},
		},
	}

	def, ok := ConvertRecipe(recipe, "rubycraft")
	if !ok {
		t.Fatal("expected shapeless recipe to convert")
	}

	body := def["minecraft:recipe_shapeless"].(map[string]any)
	ingredients := body["ingredients"].([]any)
	if len(ingredients) != 1 {
		t.Fatalf("expected 1 ingredient, got %d", len(ingredients))
	}
	// Bare ids gain the addon's namespace.
	if ingredients[0].(map[string]any)["item"] != "rubycraft:ruby" {
		t.Fatalf("unexpected ingredient: %v", ingredients[0])
	}
	result := body["result"].(map[string]any)
	if result["count"] != 2 {
		t.Fatalf("expected count 2, got %v", result["count"])
	}
}

func TestConvertRecipeUnsupportedType(t *testing.T) {
	recipe := Recipe{
		ID:   "ruby_smelting",
		Data: map[string]any{"type": "minecraft:smelting"},
	}

	if _, ok := ConvertRecipe(recipe, "rubycraft"); ok {
		t.Fatal("expected smelting recipe to be skipped")
	}
}

func TestNormalizeItemID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ruby", "rubycraft:ruby"},
		{"minecraft:stick", "minecraft:stick"},
		{"othermod:gem", "rubycraft:gem"},
	}
	for _, tt := range tests {
		if got := normalizeItemID(tt.in, "rubycraft"); got != tt.want {
			t.Errorf("normalizeItemID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
