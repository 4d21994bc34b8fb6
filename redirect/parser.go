// Package redirect classifies URLs observed during PayPal merchant
// onboarding. Two channels produce URLs: navigation requests intercepted
// inside the embedded browser, and the OS-level deep-link callback on the
// app's custom scheme. Parsing is pure — no network, no state.
package redirect

import (
	"net/url"
	"strconv"
	"strings"

	"snapbuy-seller-onboarding/shared"
)

// Parse extracts a RedirectSignal from an observed URL. The boolean result
// reports whether the URL was completion-bearing with a merchant identifier
// present; anything else means "not yet complete, keep observing".
func Parse(rawURL string) (shared.RedirectSignal, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return shared.RedirectSignal{}, false
	}

	if u.Scheme == shared.DeepLinkScheme {
		return parseDeepLink(u)
	}
	return parseNavigation(u)
}

// parseNavigation applies the completion-marker rules in order:
//  1. after-login path marker: merchant id present → granted signal;
//     absent → none (the flow has more pages to go).
//  2. return-to-partner / setup-complete marker with a merchant id.
func parseNavigation(u *url.URL) (shared.RedirectSignal, bool) {
	merchantID := u.Query().Get(shared.ParamMerchantID)

	if hasPathMarker(u, shared.MarkerAfterLogin) {
		if merchantID == "" {
			return shared.RedirectSignal{}, false
		}
		return shared.RedirectSignal{
			Source:     shared.SourceWebviewNavigation,
			MerchantID: merchantID,
			Granted:    true,
		}, true
	}

	if (hasPathMarker(u, shared.MarkerReturnPartner) || hasPathMarker(u, shared.MarkerSetupComplete)) && merchantID != "" {
		return shared.RedirectSignal{
			Source:     shared.SourceWebviewNavigation,
			MerchantID: merchantID,
			Granted:    true,
		}, true
	}

	return shared.RedirectSignal{}, false
}

// parseDeepLink reads the custom-scheme callback. The OS delivers it at most
// once per external redirect, with merchantIdInPayPal and permissionsGranted
// query parameters.
func parseDeepLink(u *url.URL) (shared.RedirectSignal, bool) {
	q := u.Query()
	merchantID := q.Get(shared.ParamMerchantID)
	if merchantID == "" {
		return shared.RedirectSignal{}, false
	}
	granted, _ := strconv.ParseBool(q.Get(shared.ParamPermissionsGranted))
	return shared.RedirectSignal{
		Source:     shared.SourceDeepLink,
		MerchantID: merchantID,
		Granted:    granted,
	}, true
}

func hasPathMarker(u *url.URL, marker string) bool {
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == marker {
			return true
		}
	}
	return false
}
