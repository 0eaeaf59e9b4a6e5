package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallbackRules recognises a couple of phrasings when the assistant is
// unavailable. It always returns at least one rule.
func fallbackRules(description string) []entity.SegmentRule {
	desc := strings.ToLower(description)
	var rules []entity.SegmentRule

	if strings.Contains(desc, "spent") && strings.Contains(desc, "10") {
		rules = append(rules, entity.SegmentRule{Field: "totalSpend", Operator: ">", Value: "10000"})
	}

	if strings.Contains(desc, "inactive") || strings.Contains(desc, "haven't") {
		if len(rules) > 0 {
			rules[len(rules)-1].Connector = "OR"
		}
		rules = append(rules, entity.SegmentRule{Field: "lastOrderDate", Operator: ">", Value: "90"})
	}

	if len(rules) == 0 {
		rules = append(rules, entity.SegmentRule{Field: "totalSpend", Operator: ">", Value: "0"})
	}
	return rules
}

func fallbackMessages(objective string) []entity.MessageVariant {
	obj := strings.ToLower(objective)

	friendly := "Hi {{name}}, enjoy special offers just for you!"
	if strings.Contains(obj, "back") {
		friendly = "Hi {{name}}, we miss you! Come back and enjoy special offers just for you!"
	}

	offer := "Exclusive offer"
	if strings.Contains(obj, "discount") {
		offer = "Limited time discount"
	}

	return []entity.MessageVariant{
		{ID: "variant1", Style: "Friendly", Message: friendly},
		{ID: "variant2", Style: "Urgent", Message: fmt.Sprintf("{{name}}, don't miss out! %s available now.", offer)},
		{ID: "variant3", Style: "Personal", Message: "Hey {{name}}! We have something special for you based on your preferences. Check it out!"},
	}
}

var reportPrinter = message.NewPrinter(language.English)

func fallbackInsight(r entity.CampaignReport) string {
	return reportPrinter.Sprintf(
		"Your %s campaign reached %d customers. %d messages were successfully delivered with a %.1f%% delivery rate.",
		r.CampaignType, r.AudienceSize, r.Delivered, r.DeliveryRate(),
	)
}
