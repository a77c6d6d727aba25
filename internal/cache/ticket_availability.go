package cache

import (
	"context"
	"fmt"

	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// TicketAvailabilityCache 票種剩餘數量的 Redis 快取。
// 僅供讀取路徑與開賣預熱使用；postgres 的 quantity_sold 才是權威計數。
type TicketAvailabilityCache interface {
	// WarmUp 開賣前預先加載剩餘數量
	WarmUp(ctx context.Context, ticketTypeID int, remaining int, price float64) error
	GetRemaining(ctx context.Context, ticketTypeID int) (int, error)
	// Decrement 保留成功後同步快取 (使用Lua腳本確保原子性，未預熱或不足時不動作)
	Decrement(ctx context.Context, ticketTypeID int, quantity int) error
	// Increment 補償釋放後同步快取
	Increment(ctx context.Context, ticketTypeID int, quantity int) error
}

type TicketAvailabilityCacheImpl struct {
	client *redis.Client
}

func NewTicketAvailabilityCache(client *redis.Client) TicketAvailabilityCache {
	return &TicketAvailabilityCacheImpl{
		client: client,
	}
}

func (c *TicketAvailabilityCacheImpl) getKey(ticketTypeID int) string {
	return fmt.Sprintf("ticket_type:%d:availability", ticketTypeID)
}

func (c *TicketAvailabilityCacheImpl) WarmUp(ctx context.Context, ticketTypeID int, remaining int, price float64) error {
	key := c.getKey(ticketTypeID)
	return c.client.HSet(ctx, key, map[string]interface{}{
		"remaining": remaining,
		"price":     price,
	}).Err()
}

func (c *TicketAvailabilityCacheImpl) GetRemaining(ctx context.Context, ticketTypeID int) (int, error) {
	key := c.getKey(ticketTypeID)
	val, err := c.client.HGet(ctx, key, "remaining").Int()
	if err == redis.Nil {
		return -1, apperrors.ErrTicketTypeNotFound
	}
	return val, err
}

func (c *TicketAvailabilityCacheImpl) Decrement(ctx context.Context, ticketTypeID int, quantity int) error {
	key := c.getKey(ticketTypeID)

	script := `
		local key = KEYS[1]
		local qty = tonumber(ARGV[1])

		-- 未預熱的票種不動作，讀取方會 fallback 到資料庫
		local remaining = redis.call('HGET', key, 'remaining')
		if not remaining then
			return 0
		end

		-- 快取只是估計值，扣到低於零就夾在零
		if tonumber(remaining) < qty then
			redis.call('HSET', key, 'remaining', 0)
			return 1
		end

		redis.call('HINCRBY', key, 'remaining', -qty)
		return 1
	`

	return c.client.Eval(ctx, script, []string{key}, quantity).Err()
}

func (c *TicketAvailabilityCacheImpl) Increment(ctx context.Context, ticketTypeID int, quantity int) error {
	key := c.getKey(ticketTypeID)

	script := `
		local key = KEYS[1]
		local qty = tonumber(ARGV[1])

		local remaining = redis.call('HGET', key, 'remaining')
		if not remaining then
			return 0
		end

		redis.call('HINCRBY', key, 'remaining', qty)
		return 1
	`

	return c.client.Eval(ctx, script, []string{key}, quantity).Err()
}
