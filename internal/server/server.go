package server

// Server groups the HTTP servers of each resource.
type Server struct {
	MethodServer
	HistoryServer
	PriceServer
	HealthServer
}

func NewServer(
	methodServer MethodServer,
	historyServer HistoryServer,
	priceServer PriceServer,
	healthServer HealthServer,
) Server {
	return Server{
		MethodServer:  methodServer,
		HistoryServer: historyServer,
		PriceServer:   priceServer,
		HealthServer:  healthServer,
	}
}
