package dispatcher_test

import "context"

func testContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}
