package domain

// WalletSession is the transient connection state persisted between CLI
// invocations. Generation increments whenever the session is torn down so
// results of requests started under an older session can be discarded.
type WalletSession struct {
	Connected    bool
	Address      string
	Strategy     string
	SelectedPool PoolID
	Generation   uint64
}

func (s WalletSession) HasSelection() bool {
	return s.SelectedPool != ""
}
