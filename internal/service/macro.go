package service

import (
	"strconv"
	"strings"

	"affiliate-tracking-service/internal/model"
)

// SubstituteMacros replaces known {token} placeholders in a postback
// template with event fields. Unrecognized tokens are left literal. The
// token set is the wire surface third-party networks integrate against.
func SubstituteMacros(template string, event model.PostbackEvent) string {
	value := event.ConversionValue.String()
	replacer := strings.NewReplacer(
		"{click_id}", event.ClickID,
		"{affiliate_id}", event.AffiliateID,
		"{offer_id}", event.OfferID,
		"{conversion_value}", value,
		"{payout}", value,
		"{status}", event.Status,
		"{timestamp}", strconv.FormatInt(event.Timestamp.Unix(), 10),
		"{ip_address}", event.Data["ip_address"],
		"{user_agent}", event.Data["user_agent"],
		"{country}", event.Data["country"],
		"{device}", event.Data["device"],
		"{source}", event.Data["source"],
	)
	return replacer.Replace(template)
}
