package openai

import "fmt"

const rulesSystemPrompt = "You are an expert at converting natural language customer descriptions into structured database query rules. Always respond with valid JSON only."

const messagesSystemPrompt = "You are an expert marketing copywriter specializing in personalized customer messaging. Create compelling, personalized messages that drive engagement and conversions. Always respond with valid JSON only."

const insightsSystemPrompt = "You are a marketing analytics expert who provides clear, actionable insights about campaign performance."

func rulesPrompt(description string) string {
	return fmt.Sprintf(`Convert the following natural language description into structured customer segment rules.

Description: %q

Available fields and their types:
- totalSpend (numeric): Customer's total spending amount
- visitCount (numeric): Number of visits/orders
- lastOrderDate (numeric): Days since the customer's last order
- segment (text): Customer segment (vip, regular, new)

Available operators: >, >=, <, <=, =, !=
segment only supports = and !=. lastOrderDate does not support = or !=.

Rules are connected with AND/OR, AND binds tighter than OR.

Return a JSON object with this exact structure:
{"rules": [{"field": "totalSpend", "operator": ">", "value": "10000", "connector": "AND"}]}

Convert common phrases:
- "high spenders" or "spent over X" -> totalSpend > X
- "inactive" or "haven't shopped in X days" -> lastOrderDate > X
- "frequent customers" or "visited more than X times" -> visitCount > X
- "new customers" -> segment = "new"
- "VIP customers" -> segment = "vip"

The last rule must not have a connector.`, description)
}

func messagesPrompt(objective, audience string) string {
	if audience == "" {
		audience = "General customers"
	}
	return fmt.Sprintf(`Generate 3 different message variants for a marketing campaign.

Campaign Objective: %q
Audience: %s

Create messages that:
- include the personalization placeholder {{name}}
- fit the campaign objective
- each use a different tone
- are concise and end with a clear call-to-action

Return a JSON object with this exact structure:
{"messages": [{"id": "variant1", "style": "Friendly", "message": "Hi {{name}}, ..."}]}`, objective, audience)
}

func insightsPrompt(campaignType string, audience, sent, delivered, failed int, rate float64) string {
	return fmt.Sprintf(`Generate a human-readable insight summary for this campaign performance:

Campaign Type: %s
Total Audience: %d
Messages Sent: %d
Successfully Delivered: %d
Failed Deliveries: %d
Delivery Rate: %.1f%%

Cover the overall assessment, the delivery rate against a 90-95%% industry benchmark and one or two recommendations.
Keep it concise. Return plain text, not JSON.`, campaignType, audience, sent, delivered, failed, rate)
}
