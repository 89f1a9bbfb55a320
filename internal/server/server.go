package server

// Server groups the servers of the individual resources.
type Server struct {
	SkinServer
	AuthServer
	TradeServer
	ProxyServer
}

func NewServer(
	skinServer SkinServer,
	authServer AuthServer,
	tradeServer TradeServer,
	proxyServer ProxyServer,
) Server {
	return Server{
		SkinServer:  skinServer,
		AuthServer:  authServer,
		TradeServer: tradeServer,
		ProxyServer: proxyServer,
	}
}
