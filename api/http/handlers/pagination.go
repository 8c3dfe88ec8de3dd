package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Listing pagination is page-number based; the use cases clamp page size.
func parsePage(c *fiber.Ctx) (page, pageSize int) {
	page = 1
	pageSize = 20
	if v := strings.TrimSpace(c.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(c.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}
