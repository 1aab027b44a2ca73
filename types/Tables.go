package types

// Table names double as realtime channel names.
const (
	TableCommodities  = "commodities"
	TableYields       = "producer_yields"
	TableOrders       = "buyer_orders"
	TableBids         = "transport_bids"
	TableTransactions = "transaction_history"
	TableRatings      = "ratings"
	TableProfiles     = "user_profiles"
)
