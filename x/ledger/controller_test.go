package ledger

import (
	"testing"

	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestController(t *testing.T) {
	Convey("Given a ledger with a funded owner", t, func() {
		db := store.MemStore()
		ctrl := NewController(NewBucket())
		alice := weavetest.NewCondition().Address()
		bob := weavetest.NewCondition().Address()
		aliceAcc := AccountAddress(alice, "TLK")

		So(ctrl.Mint(db, alice, coin.NewCoin(1000, "TLK")), ShouldBeNil)

		balance, err := ctrl.Balance(db, aliceAcc)
		So(err, ShouldBeNil)
		So(balance, ShouldResemble, coin.NewCoin(1000, "TLK"))

		Convey("Minting again adds to the balance", func() {
			So(ctrl.Mint(db, alice, coin.NewCoin(5, "TLK")), ShouldBeNil)
			balance, err := ctrl.Balance(db, aliceAcc)
			So(err, ShouldBeNil)
			So(balance.Amount, ShouldEqual, 1005)
		})

		Convey("Minting nothing fails", func() {
			err := ctrl.Mint(db, alice, coin.NewCoin(0, "TLK"))
			So(errors.ErrInvalidAmount.Is(err), ShouldBeTrue)
		})

		Convey("An account can be opened only once", func() {
			err := ctrl.Open(db, aliceAcc, alice, "TLK")
			So(errors.ErrDuplicate.Is(err), ShouldBeTrue)
		})

		Convey("When a vault controlled by another address is opened", func() {
			vault := weavetest.NewCondition().Address()
			authority := weavetest.NewCondition().Address()
			So(ctrl.Open(db, vault, authority, "TLK"), ShouldBeNil)

			Convey("The owner can fund it", func() {
				So(ctrl.Transfer(db, aliceAcc, vault, alice, coin.NewCoin(400, "TLK")), ShouldBeNil)

				b, err := ctrl.Balance(db, vault)
				So(err, ShouldBeNil)
				So(b.Amount, ShouldEqual, 400)
				b, err = ctrl.Balance(db, aliceAcc)
				So(err, ShouldBeNil)
				So(b.Amount, ShouldEqual, 600)

				Convey("Only the authority can move the funds out", func() {
					back := ctrl.Transfer(db, vault, aliceAcc, alice, coin.NewCoin(400, "TLK"))
					So(errors.ErrUnauthorized.Is(back), ShouldBeTrue)

					So(ctrl.Transfer(db, vault, aliceAcc, authority, coin.NewCoin(400, "TLK")), ShouldBeNil)
					b, err := ctrl.Balance(db, aliceAcc)
					So(err, ShouldBeNil)
					So(b.Amount, ShouldEqual, 1000)
				})

				Convey("A funded account cannot be closed", func() {
					err := ctrl.Close(db, vault, authority)
					So(errors.ErrInvalidState.Is(err), ShouldBeTrue)
				})
			})

			Convey("An empty account is closed by its controller only", func() {
				So(errors.ErrUnauthorized.Is(ctrl.Close(db, vault, alice)), ShouldBeTrue)
				So(ctrl.Close(db, vault, authority), ShouldBeNil)
				_, err := ctrl.Balance(db, vault)
				So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			})

			Convey("Overdraft is rejected", func() {
				err := ctrl.Transfer(db, aliceAcc, vault, alice, coin.NewCoin(1001, "TLK"))
				So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
			})

			Convey("Another asset is rejected", func() {
				err := ctrl.Transfer(db, aliceAcc, vault, alice, coin.NewCoin(1, "ETH"))
				So(errors.ErrAssetMismatch.Is(err), ShouldBeTrue)
			})
		})

		Convey("Transfer from a missing account is an insufficient amount", func() {
			dst, err := ctrl.OpenUser(db, alice, "TLK")
			So(err, ShouldBeNil)
			So(dst, ShouldResemble, aliceAcc)

			err = ctrl.Transfer(db, AccountAddress(bob, "TLK"), dst, bob, coin.NewCoin(1, "TLK"))
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Transfer to a missing account fails", func() {
			err := ctrl.Transfer(db, aliceAcc, AccountAddress(bob, "TLK"), alice, coin.NewCoin(1, "TLK"))
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})

		Convey("Destination of another asset is rejected", func() {
			dst, err := ctrl.OpenUser(db, bob, "ETH")
			So(err, ShouldBeNil)
			err = ctrl.Transfer(db, aliceAcc, dst, alice, coin.NewCoin(1, "TLK"))
			So(errors.ErrAssetMismatch.Is(err), ShouldBeTrue)
		})

		Convey("The controller index lists accounts", func() {
			var accounts []Account
			keys, err := NewBucket().ByIndex(db, "controller", alice, &accounts)
			So(err, ShouldBeNil)
			So(keys, ShouldHaveLength, 1)
			So(accounts[0].Balance, ShouldEqual, 1000)
		})
	})
}
