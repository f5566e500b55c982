package backend

import (
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/records"
)

var (
	_ checkout.Submitter = (*Client)(nil)
	_ records.Repository = (*Client)(nil)
	_ cart.Directory     = (*Client)(nil)
)
