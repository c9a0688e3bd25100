package agent

import (
	"encoding/json"
	"fmt"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/order"
)

// BaristaInstructions contains the barista persona and ordering policy.
const BaristaInstructions = `You are a friendly barista at Brew Bliss Coffee, taking voice orders.
The user is speaking to you, but you see text.

You must help the user place a drink order and maintain an internal order state with the fields:
drinkType, size, milk, extras, name.

Order state schema:
{
  "drinkType": "string",
  "size": "string",
  "milk": "string",
  "extras": ["string"],
  "name": "string"
}

Behavior:
- Ask clarifying questions until all of these fields are filled.
- Typical sizes are small, medium, large.
- Milk can be whole, skim, oat, almond, soy, etc.
- Extras can include things like extra shot, vanilla syrup, caramel, whipped cream.
- Always capture the customer's name.
- Use the tools update_order_state and finalize_order whenever the user provides or confirms details.
- Once all fields are filled and confirmed, call finalize_order to save the order.
- After finalize_order, give a concise text summary of the order and tell the user it has been placed.

Style:
- You are warm, efficient, and a bit playful, like a barista during a busy but fun morning.
- Keep responses concise, to the point.
- When the user greets you (hello, hi, hey, good morning, etc), always respond with a short friendly greeting followed by: 'Welcome to Brew Bliss Coffee. What can I get started for you today?'
- Do not use complex formatting or punctuation such as emojis, asterisks, or other special symbols.`

// BaristaProfile builds the coffee-order assistant. Each profile holds its
// own order tracker; finalized orders are written through the store.
func BaristaProfile(store order.Store) Profile {
	tracker := order.NewTracker()

	return Profile{
		Name:         "barista",
		Instructions: BaristaInstructions,
		Voice:        "alloy",
		Detail: func() map[string]any {
			return map[string]any{
				"order":          tracker.Current(),
				"missing_fields": tracker.MissingRequired(),
			}
		},
		Tools: []Tool{
			{
				Name: "update_order_state",
				Description: "Update the current coffee order state. Call this whenever the user " +
					"gives or changes details about their drink. Any argument that is not provided " +
					"will be left unchanged. Returns the full current order and the fields still missing.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"drinkType": map[string]any{
							"type":        "string",
							"description": "The drink type, for example latte, cappuccino, americano, cold brew",
						},
						"size": map[string]any{
							"type":        "string",
							"description": "The drink size, for example small, medium, large",
						},
						"milk": map[string]any{
							"type":        "string",
							"description": "The milk type, for example whole, skim, oat, almond, soy",
						},
						"extras": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "A list of extras, for example extra shot, vanilla syrup, whipped cream. Replaces the previous list entirely.",
						},
						"name": map[string]any{
							"type":        "string",
							"description": "The customer's name for the order",
						},
					},
					"required": []string{},
				},
				Handler: func(args map[string]any) (string, error) {
					log.Info("updating order state", "agent", "barista")

					updated, missing := tracker.Apply(order.Update{
						DrinkType: stringPtrArg(args, "drinkType"),
						Size:      stringPtrArg(args, "size"),
						Milk:      stringPtrArg(args, "milk"),
						Extras:    stringSliceArg(args, "extras"),
						Name:      stringPtrArg(args, "name"),
					})

					return marshalResult(map[string]any{
						"order":          updated,
						"missing_fields": missing,
					})
				},
			},
			{
				Name: "finalize_order",
				Description: "Finalize the order once it is fully specified and confirmed by the user. " +
					"Validates that drinkType, size, milk, and name are filled, saves the order as a " +
					"JSON file, and returns a summary plus the file path. Extras are optional.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
					"required":   []string{},
				},
				Handler: func(args map[string]any) (string, error) {
					log.Info("finalizing order", "agent", "barista")

					current := tracker.Current()
					if missing := tracker.MissingRequired(); len(missing) > 0 {
						return marshalResult(map[string]any{
							"success":        false,
							"message":        "Order is not complete. Missing fields.",
							"missing_fields": missing,
							"order":          current,
						})
					}

					path, err := store.SaveOrder(current)
					if err != nil {
						log.Error("failed to save order", "error", err)
						return marshalResult(map[string]any{
							"success": false,
							"message": fmt.Sprintf("Failed to save order file: %v", err),
							"order":   current,
						})
					}

					log.Info("order saved", "file", path)
					return marshalResult(map[string]any{
						"success": true,
						"message": "Order saved successfully.",
						"order":   current,
						"summary": current.Summary(),
						"file":    path,
					})
				},
			},
		},
	}
}

// stringArg extracts a string argument, returning "" when absent.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// stringPtrArg extracts a string argument preserving presence: nil when the
// key is absent, so "provided but empty" still overwrites the target field.
func stringPtrArg(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

// stringSliceArg extracts a string-array argument. Returns nil when the key
// is absent, so callers can tell "not provided" from "provided empty".
func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// marshalResult encodes a tool result for the model.
func marshalResult(v map[string]any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(data), nil
}
