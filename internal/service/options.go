package service

import "time"

// Option tunes a DeliveryService.
type Option func(*DeliveryService)

// WithDeliveryTimeout bounds a single adapter delivery. Zero keeps the
// default.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(s *DeliveryService) {
		if d > 0 {
			s.deliveryTimeout = d
		}
	}
}

// WithFanOutLimit caps concurrent adapter deliveries per event.
func WithFanOutLimit(n int) Option {
	return func(s *DeliveryService) {
		if n > 0 {
			s.fanOutLimit = n
		}
	}
}
