package utils

import (
	"strings"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
)

// Gateway payment_status values carried by the ITN notification
const (
	GatewayStatusComplete  = "COMPLETE"
	GatewayStatusFailed    = "FAILED"
	GatewayStatusCancelled = "CANCELLED"
)

// Return-path outcomes asserted by the buyer's browser
const (
	ReturnOutcomeSuccess = "success"
	ReturnOutcomeCancel  = "cancel"
)

// ProcessGatewayNotification reconciles an asynchronous ITN notification
// into the payment record and, on the first transition to complete, runs
// the ownership transfer. Errors are logged, never returned: the webhook
// handler must acknowledge regardless of what happens here.
func ProcessGatewayNotification(form map[string]string) {
	paymentID := form["m_payment_id"]
	if paymentID == "" {
		LogError("Gateway notification without m_payment_id, ignoring: %v", form)
		return
	}
	LogInfo("Gateway notification received for payment %s, status %q", paymentID, form["payment_status"])

	creds := config.App.PayFastCredsForMerchant(form["merchant_id"])
	verified := PayFastVerifySignature(form, form["signature"], creds.Passphrase)
	if !verified {
		if !config.App.AllowUnverifiedNotifications {
			LogError("Gateway notification signature mismatch for payment %s, rejecting", paymentID)
			return
		}
		LogError("Gateway notification signature mismatch for payment %s, processing as unverified", paymentID)
	}

	switch strings.ToUpper(form["payment_status"]) {
	case GatewayStatusComplete:
		payment, err := Payments.Merge(paymentID, PaymentPatch{
			Status:           models.PaymentStatusComplete,
			GatewayPaymentID: form["pf_payment_id"],
			Amount:           form["amount_gross"],
			ItemName:         form["item_name"],
			BuyerEmail:       form["email_address"],
			Verified:         &verified,
		})
		if err != nil {
			LogError("Failed to merge complete notification for payment %s: %v", paymentID, err)
			return
		}
		maybeRunTransfer(payment)
	case GatewayStatusFailed:
		if _, err := Payments.Merge(paymentID, PaymentPatch{
			Status:           models.PaymentStatusFailed,
			GatewayPaymentID: form["pf_payment_id"],
			Verified:         &verified,
		}); err != nil {
			LogError("Failed to merge failed notification for payment %s: %v", paymentID, err)
		}
	case GatewayStatusCancelled:
		if _, err := Payments.Merge(paymentID, PaymentPatch{
			Status:           models.PaymentStatusCancelled,
			GatewayPaymentID: form["pf_payment_id"],
			Verified:         &verified,
		}); err != nil {
			LogError("Failed to merge cancelled notification for payment %s: %v", paymentID, err)
		}
	default:
		LogInfo("Gateway notification for payment %s carries status %q, no state change", paymentID, form["payment_status"])
	}
}

// ProcessPaymentReturn reconciles the synchronous browser return. The
// outcome is browser-asserted and therefore advisory: a success return may
// optimistically promote a pending record (the notification is often
// seconds behind), but it never overrides a terminal state.
func ProcessPaymentReturn(paymentID, outcome string) (*models.Payment, error) {
	LogInfo("Payment return received for payment %s, outcome %q", paymentID, outcome)

	payment, err := Payments.Get(paymentID)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case ReturnOutcomeSuccess:
		if payment == nil {
			// Nothing is known about this ID; record the outcome for the
			// status query but do not transfer. The browser redirect
			// carries no relation IDs to transfer with.
			LogError("Payment return for unknown payment %s, creating bare record", paymentID)
			return Payments.Merge(paymentID, PaymentPatch{Status: models.PaymentStatusComplete})
		}
		if payment.Status == models.PaymentStatusComplete {
			return payment, nil
		}
		payment, err = Payments.Merge(paymentID, PaymentPatch{Status: models.PaymentStatusComplete})
		if err != nil {
			return nil, err
		}
		maybeRunTransfer(payment)
		return payment, nil
	case ReturnOutcomeCancel:
		if payment == nil {
			return nil, nil
		}
		if payment.Status != models.PaymentStatusPending {
			return payment, nil
		}
		return Payments.Merge(paymentID, PaymentPatch{Status: models.PaymentStatusCancelled})
	default:
		LogError("Payment return for payment %s with unknown outcome %q", paymentID, outcome)
		return payment, nil
	}
}

// maybeRunTransfer runs the ownership transfer for a complete payment,
// resolving missing relation IDs when it can. The transfer gate guarantees
// at most one run per payment ID no matter how many confirmation signals
// arrive or in what order.
func maybeRunTransfer(payment *models.Payment) {
	if payment == nil || payment.Status != models.PaymentStatusComplete {
		return
	}

	if payment.ListingID == 0 || payment.BuyerID == 0 || payment.SellerID == 0 {
		resolved, ok := resolveRelationIDs(payment)
		if !ok {
			LogError("Payment %s is complete but relation IDs are unresolved, leaving for manual replay", payment.PaymentID)
			return
		}
		payment = resolved
	}

	won, err := Payments.TryMarkTransferred(payment.PaymentID)
	if err != nil {
		LogError("Transfer gate failed for payment %s: %v", payment.PaymentID, err)
		return
	}
	if !won {
		LogInfo("Transfer already handled for payment %s, skipping", payment.PaymentID)
		return
	}

	if err := ExecuteTradeTransfer(Market, payment.ListingID, payment.BuyerID, payment.SellerID, payment.ItemName, payment.Amount); err != nil {
		LogError("Trade transfer failed for payment %s: %v (recover via manual replay)", payment.PaymentID, err)
	}
}

// resolveRelationIDs fills missing listing/buyer/seller IDs from what the
// notification carried: a uniquely named active listing supplies the
// listing and seller, the notification email supplies the buyer. Ambiguity
// is left to the manual replay endpoint.
func resolveRelationIDs(payment *models.Payment) (*models.Payment, bool) {
	patch := PaymentPatch{}

	listingID := payment.ListingID
	sellerID := payment.SellerID
	if listingID == 0 {
		if payment.ItemName == "" {
			return nil, false
		}
		listings, err := Market.ActiveListingsByName(payment.ItemName)
		if err != nil {
			LogError("Fallback listing lookup failed for payment %s: %v", payment.PaymentID, err)
			return nil, false
		}
		if len(listings) != 1 {
			LogError("Fallback listing lookup for payment %s matched %d active listings for %q", payment.PaymentID, len(listings), payment.ItemName)
			return nil, false
		}
		listingID = listings[0].ID
		patch.ListingID = listingID
		if sellerID == 0 {
			sellerID = listings[0].SellerID
			patch.SellerID = sellerID
		}
	}
	if sellerID == 0 {
		listing, err := Market.ListingByID(listingID)
		if err != nil {
			LogError("Fallback seller lookup failed for payment %s: %v", payment.PaymentID, err)
			return nil, false
		}
		sellerID = listing.SellerID
		patch.SellerID = sellerID
	}

	buyerID := payment.BuyerID
	if buyerID == 0 {
		if payment.BuyerEmail == "" {
			return nil, false
		}
		buyer, err := Market.UserByEmail(payment.BuyerEmail)
		if err != nil {
			LogError("Fallback buyer lookup failed for payment %s (%s): %v", payment.PaymentID, payment.BuyerEmail, err)
			return nil, false
		}
		buyerID = buyer.ID
		patch.BuyerID = buyerID
	}

	merged, err := Payments.Merge(payment.PaymentID, patch)
	if err != nil {
		LogError("Failed to persist resolved relation IDs for payment %s: %v", payment.PaymentID, err)
		return nil, false
	}
	LogInfo("Resolved relation IDs for payment %s - listing: %d, buyer: %d, seller: %d", payment.PaymentID, listingID, buyerID, sellerID)
	return merged, true
}
