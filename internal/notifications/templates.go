package notifications

import (
	"fmt"
	"html"
	"strings"
)

// WelcomeEmail greets a newly registered user.
func WelcomeEmail(siteName, to string) Email {
	return Email{
		To:      to,
		Subject: fmt.Sprintf("Welcome to %s!", siteName),
		HTML:    render("Hope you will find your products."),
		Kind:    KindWelcome,
	}
}

// BuyerBookingEmail confirms a checkout to the buyer.
func BuyerBookingEmail(to, transactionID string) Email {
	return Email{
		To:      to,
		Subject: "Booking Successful!",
		HTML:    render(fmt.Sprintf("You've booked your products successfully. Transaction Id: %s", transactionID)),
		Kind:    KindBuyerBooking,
	}
}

// SellerBookingEmail tells a seller their products were booked.
func SellerBookingEmail(to, buyerName string) Email {
	name := strings.TrimSpace(buyerName)
	if name == "" {
		name = "your customer"
	}
	return Email{
		To:      to,
		Subject: "Your Products got booked!",
		HTML:    render(fmt.Sprintf("Get ready to welcome %s.", name)),
		Kind:    KindSellerBooking,
	}
}

func render(message string) string {
	return "<html><body><p>" + html.EscapeString(message) + "</p></body></html>"
}
