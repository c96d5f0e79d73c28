package pricing

import "github.com/railrover/railrover/internal/domain"

var basePrices = map[domain.TicketClass]int64{
	domain.TicketClassEconomy:  50,
	domain.TicketClassBusiness: 120,
	domain.TicketClassFirst:    200,
}

func BasePrice(class domain.TicketClass) int64 {
	return basePrices[class]
}

// Calculate returns the total price for a booking. Pure, no I/O.
func Calculate(class domain.TicketClass, passengers int) int64 {
	return BasePrice(class) * int64(passengers)
}
