package main

import (
	"context"
	"fmt"
	"os"
)

func handleWhoami(ctx context.Context, a *app) {
	user := a.requireUser()

	profile, err := a.client.Profile(ctx, user)
	if err != nil {
		fmt.Printf("❌ Error loading profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("UID:      %s\n", user.UID)
	fmt.Printf("Email:    %s\n", user.Email)
	if !user.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s\n", user.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Company:  %s\n", profile.CompanyName)
	if profile.CompanyCity != "" {
		fmt.Printf("City:     %s\n", profile.CompanyCity)
	}
}
