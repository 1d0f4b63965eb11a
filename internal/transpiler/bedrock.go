package transpiler

import "strings"

// formatVersion is the Bedrock content format targeted by the
// generated behavior and resource packs.
const formatVersion = "1.20.80"

// ConvertItem produces the Bedrock item definition for a Java item.
// The minecraft:icon component must name a texture that also appears
// in item_texture.json, or the item renders without an icon.
func ConvertItem(item *JavaItem, modID string) map[string]any {
	category := "items"
	if item.IsTool || item.IsArmor {
		category = "equipment"
	}

	components := map[string]any{
		"minecraft:icon": map[string]any{
			"texture": item.TextureName,
		},
		"minecraft:max_stack_size": item.MaxStackSize,
	}
	for k, v := range itemComponents(item) {
		components[k] = v
	}

	return map[string]any{
		"format_version": formatVersion,
		"minecraft:item": map[string]any{
			"description": map[string]any{
				"identifier": modID + ":" + item.Identifier,
				"menu_category": map[string]any{
					"category": category,
				},
			},
			"components": components,
		},
	}
}

func itemComponents(item *JavaItem) map[string]any {
	components := map[string]any{}

	if item.MaxDamage > 0 {
		durability := item.MaxDamage
		if durability > 32767 {
			durability = 32767
		}
		components["minecraft:durability"] = map[string]any{
			"max_durability": durability,
		}
	}

	if item.AttackDamage > 0 {
		components["minecraft:damage"] = item.AttackDamage
	}

	if item.IsTool {
		components["minecraft:digger"] = map[string]any{
			"use_efficiency": true,
			"destroy_speeds": []any{
				map[string]any{
					"block": "minecraft:stone",
					"speed": 8,
				},
			},
		}
	}

	if item.IsFood {
		components["minecraft:food"] = map[string]any{
			"nutrition":      item.FoodValue,
			"can_always_eat": false,
		}
	}

	return components
}

// ConvertBlock produces the Bedrock block definition for a Java block.
func ConvertBlock(block *JavaBlock, modID string) map[string]any {
	return map[string]any{
		"format_version": formatVersion,
		"minecraft:block": map[string]any{
			"description": map[string]any{
				"identifier": modID + ":" + block.Identifier,
				"menu_category": map[string]any{
					"category": "construction",
				},
			},
			"components": map[string]any{
				"minecraft:destructible_by_mining": map[string]any{
					"seconds_to_destroy": block.Hardness / 1.5,
				},
				"minecraft:destructible_by_explosion": map[string]any{
					"explosion_resistance": block.Resistance,
				},
				"minecraft:geometry": "geometry.cube",
				"minecraft:material_instances": map[string]any{
					"*": map[string]any{
						"texture":       block.TextureName,
						"render_method": "opaque",
					},
				},
				"minecraft:light_emission": block.LightEmission,
			},
		},
	}
}

// ConvertRecipe produces a Bedrock recipe for supported Java recipe
// types. The second return value is false for recipe types that have
// no Bedrock equivalent (smithing, stonecutting, and so on), which are
// skipped rather than converted badly.
func ConvertRecipe(recipe Recipe, modID string) (map[string]any, bool) {
	rawType, _ := recipe.Data["type"].(string)
	parts := strings.Split(rawType, ":")
	recipeType := parts[len(parts)-1]

	switch recipeType {
	case "crafting_shaped":
		return convertShaped(recipe, modID), true
	case "crafting_shapeless":
		return convertShapeless(recipe, modID), true
	default:
		return nil, false
	}
}

func convertShaped(recipe Recipe, modID string) map[string]any {
	pattern := []any{"AAA", "AAA", "AAA"}
	if p, ok := recipe.Data["pattern"].([]any); ok {
		pattern = p
	}

	key := map[string]any{}
	if rawKey, ok := recipe.Data["key"].(map[string]any); ok {
		for sym, raw := range rawKey {
			entry, _ := raw.(map[string]any)
			item, _ := entry["item"].(string)
			if item == "" {
				item = "minecraft:air"
			}
			key[sym] = map[string]any{"item": normalizeItemID(item, modID)}
		}
	}

	return map[string]any{
		"format_version": formatVersion,
		"minecraft:recipe_shaped": map[string]any{
			"description": map[string]any{"identifier": modID + ":" + recipe.ID},
			"tags":        []any{"crafting_table"},
			"pattern":     pattern,
			"key":         key,
			"result":      convertResult(recipe.Data, modID),
		},
	}
}

func convertShapeless(recipe Recipe, modID string) map[string]any {
	var ingredients []any
	if raw, ok := recipe.Data["ingredients"].([]any); ok {
		for _, ing := range raw {
			entry, ok := ing.(map[string]any)
			if !ok {
				continue
			}
			item, ok := entry["item"].(string)
			if !ok {
				continue
			}
			ingredients = append(ingredients, map[string]any{
				"item": normalizeItemID(item, modID),
			})
		}
	}

	return map[string]any{
		"format_version": formatVersion,
		"minecraft:recipe_shapeless": map[string]any{
			"description": map[string]any{"identifier": modID + ":" + recipe.ID},
			"tags":        []any{"crafting_table"},
			"ingredients": ingredients,
			"result":      convertResult(recipe.Data, modID),
		},
	}
}

func convertResult(data map[string]any, modID string) map[string]any {
	item := "minecraft:air"
	count := 1

	if result, ok := data["result"].(map[string]any); ok {
		if id, ok := result["item"].(string); ok && id != "" {
			item = id
		}
		if c, ok := result["count"].(float64); ok && c > 0 {
			count = int(c)
		}
	}

	return map[string]any{
		"item":  normalizeItemID(item, modID),
		"count": count,
	}
}

// normalizeItemID rewrites Java item ids into the addon's namespace,
// leaving vanilla minecraft: ids alone.
func normalizeItemID(itemID, modID string) string {
	if !strings.Contains(itemID, ":") {
		return modID + ":" + itemID
	}

	parts := strings.SplitN(itemID, ":", 2)
	if parts[0] == "minecraft" {
		return itemID
	}
	return modID + ":" + parts[1]
}
