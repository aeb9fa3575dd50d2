package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"storefront/internal/services"
)

const defaultDays = 2

type cartRemover interface {
	RemoveExpired(ctx context.Context, days int) (int, error)
}

// connectFunc opens the store lazily so bad input never touches it.
type connectFunc func() (cartRemover, func(), error)

func run(ctx context.Context, args []string, connect connectFunc, stdout, stderr io.Writer) int {
	days, err := parseDays(args)
	if err != nil {
		writeError(stderr, err)
		return 1
	}

	remover, cleanup, err := connect()
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] connect: %v\n", err)
		return 1
	}
	defer cleanup()

	deleted, err := remover.RemoveExpired(ctx, days)
	if err != nil {
		writeError(stderr, err)
		if deleted > 0 {
			fmt.Fprintf(stderr, "%d cart(s) were deleted before the failure.\n", deleted)
		}
		return 1
	}

	if deleted == 0 {
		fmt.Fprintln(stdout, "No expired carts.")
	} else {
		fmt.Fprintf(stdout, "%d cart(s) have been deleted.\n", deleted)
	}
	return 0
}

func parseDays(args []string) (int, error) {
	if len(args) == 0 {
		return defaultDays, nil
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("expected at most one argument, got %d", len(args))
	}

	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		return 0, services.ErrInvalidRetention
	}
	return days, nil
}

func writeError(w io.Writer, err error) {
	if errors.Is(err, services.ErrInvalidRetention) {
		fmt.Fprintln(w, "[ERROR] The number of days should be greater than 0.")
		return
	}
	fmt.Fprintf(w, "[ERROR] %v\n", err)
}
