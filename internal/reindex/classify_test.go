package reindex

import "testing"

func TestClassifyEmail(t *testing.T) {
	tests := []struct {
		name    string
		sender  string
		subject string
		body    string
		want    string
	}{
		{
			name:    "receipt from subject",
			sender:  "info@netflix.com",
			subject: "Your receipt from Netflix",
			body:    "Your subscription renewed.",
			want:    CategoryReceipt,
		},
		{
			name:    "order confirmation",
			sender:  "orders@shop.example.com",
			subject: "Your order has shipped",
			body:    "Tracking inside.",
			want:    CategoryReceipt,
		},
		{
			name:    "flight itinerary",
			sender:  "noreply@airline.example.com",
			subject: "Your itinerary for BKK",
			body:    "Flight details attached.",
			want:    CategoryTravel,
		},
		{
			name:    "hotel in body only",
			sender:  "concierge@stay.example.com",
			subject: "See you soon",
			body:    "Your hotel room is ready for early arrival.",
			want:    CategoryTravel,
		},
		{
			name:    "bank statement",
			sender:  "alerts@bank.example.com",
			subject: "Your monthly statement is ready",
			body:    "Log in to view.",
			want:    CategoryStatement,
		},
		{
			name:    "receipt cue wins over travel cue",
			sender:  "billing@airline.example.com",
			subject: "Payment confirmation for your flight confirmation",
			body:    "",
			want:    CategoryReceipt,
		},
		{
			name:    "case insensitive",
			sender:  "",
			subject: "INVOICE #42",
			body:    "",
			want:    CategoryReceipt,
		},
		{
			name:    "no cues",
			sender:  "friend@example.com",
			subject: "Lunch tomorrow?",
			body:    "Noon works for me.",
			want:    CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyEmail(tt.sender, tt.subject, tt.body); got != tt.want {
				t.Errorf("ClassifyEmail() = %q, want %q", got, tt.want)
			}
		})
	}
}
