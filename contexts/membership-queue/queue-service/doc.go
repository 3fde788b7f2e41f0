// Package queueservice implements the membership queue inside the
// membership-queue context.
//
// The module owns queue ordering (add/update/remove/recalculate), the
// eligibility rule that keeps past winners out of every selection, and the
// payout calculator that turns completed dues into winner counts. Profile and
// payment data are read through ports; the module never writes to them.
package queueservice
