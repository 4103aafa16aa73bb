package issuer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/store/memory"
	"github.com/tokenfactory/issuer/testutils/accounts"
	"github.com/tokenfactory/issuer/txsystem/bank"
	"github.com/tokenfactory/issuer/types"
)

const (
	hrp = types.DefaultAddressPrefix

	u128Max      = "340282366920938463463374607431768211455"
	u128MaxMinus = "340282366920938463463374607431768211454"
)

type testEnv struct {
	t     *testing.T
	kv    store.ChangeSet
	c     *Contract
	owner types.Address
	denom string
	accs  []types.Address
}

func newTestEnv(t *testing.T) *testEnv {
	contractAddr, err := types.NewContractAddress(hrp, "issuer")
	require.NoError(t, err)
	kv := memory.New().Begin(true)
	t.Cleanup(kv.Discard)

	env := &testEnv{
		t:     t,
		kv:    kv,
		c:     New(contractAddr, hrp),
		owner: accounts.New(t, hrp).Address,
		denom: "factory/" + contractAddr.String() + "/uusd",
	}
	for _, acc := range accounts.NewN(t, hrp, 3) {
		env.accs = append(env.accs, acc.Address)
	}
	_, err = env.c.Instantiate(kv, env.owner, &InstantiateMsg{NewToken: &NewTokenAttributes{Subdenom: "uusd"}})
	require.NoError(t, err)
	return env
}

func (e *testEnv) exec(sender types.Address, msg *ExecuteMsg) (*Response, error) {
	return e.c.Execute(e.kv, sender, msg)
}

func (e *testEnv) setMinter(addr types.Address, amount string) {
	e.t.Helper()
	_, err := e.exec(e.owner, &ExecuteMsg{SetMinter: &SetMinterAttributes{Address: addr, Allowance: types.MustParseAmount(amount)}})
	require.NoError(e.t, err)
}

func (e *testEnv) setBurner(addr types.Address, amount string) {
	e.t.Helper()
	_, err := e.exec(e.owner, &ExecuteMsg{SetBurner: &SetBurnerAttributes{Address: addr, Allowance: types.MustParseAmount(amount)}})
	require.NoError(e.t, err)
}

func (e *testEnv) mint(sender, to types.Address, amount string) (*Response, error) {
	return e.exec(sender, &ExecuteMsg{Mint: &MintAttributes{ToAddress: to, Amount: types.MustParseAmount(amount)}})
}

func (e *testEnv) burn(sender, from types.Address, amount string) (*Response, error) {
	return e.exec(sender, &ExecuteMsg{Burn: &BurnAttributes{FromAddress: from, Amount: types.MustParseAmount(amount)}})
}

func (e *testEnv) mintAllowance(addr types.Address) string {
	e.t.Helper()
	r, err := e.c.MintAllowance(e.kv, addr)
	require.NoError(e.t, err)
	return r.Allowance.String()
}

func (e *testEnv) burnAllowance(addr types.Address) string {
	e.t.Helper()
	r, err := e.c.BurnAllowance(e.kv, addr)
	require.NoError(e.t, err)
	return r.Allowance.String()
}

func requireOverflow(t *testing.T, err error, op1, op2 string) {
	t.Helper()
	var oe *types.OverflowError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, types.OverflowSub, oe.Operation)
	require.Equal(t, op1, oe.Operand1.String())
	require.Equal(t, op2, oe.Operand2.String())
	require.EqualError(t, err, "Overflow: Cannot Sub with "+op1+" and "+op2)
}

func Test_Instantiate(t *testing.T) {
	contractAddr, err := types.NewContractAddress(hrp, "issuer")
	require.NoError(t, err)
	owner := accounts.New(t, hrp).Address

	t.Run("new token", func(t *testing.T) {
		kv := memory.New().Begin(true)
		c := New(contractAddr, hrp)
		res, err := c.Instantiate(kv, owner, &InstantiateMsg{NewToken: &NewTokenAttributes{Subdenom: "uusd"}})
		require.NoError(t, err)

		denom := "factory/" + contractAddr.String() + "/uusd"
		require.Equal(t, []bank.Msg{
			&bank.CreateDenomMsg{Sender: contractAddr, Subdenom: "uusd"},
			&bank.SetBeforeSendHookMsg{Sender: contractAddr, Denom: denom, ContractAddr: contractAddr},
		}, res.Messages)

		d, err := c.Denom(kv)
		require.NoError(t, err)
		require.Equal(t, denom, d.Denom)
		o, err := c.Owner(kv)
		require.NoError(t, err)
		require.Equal(t, owner, o.Address)
		f, err := c.IsFrozen(kv)
		require.NoError(t, err)
		require.False(t, f.IsFrozen)

		_, err = c.Instantiate(kv, owner, &InstantiateMsg{NewToken: &NewTokenAttributes{Subdenom: "uusd"}})
		require.ErrorIs(t, err, ErrAlreadyInstantiated)
	})

	t.Run("existing token", func(t *testing.T) {
		kv := memory.New().Begin(true)
		c := New(contractAddr, hrp)
		res, err := c.Instantiate(kv, owner, &InstantiateMsg{ExistingToken: &ExistingTokenAttributes{Denom: "uosmo"}})
		require.NoError(t, err)
		require.Empty(t, res.Messages)

		d, err := c.Denom(kv)
		require.NoError(t, err)
		require.Equal(t, "uosmo", d.Denom)
	})

	t.Run("invalid", func(t *testing.T) {
		c := New(contractAddr, hrp)
		var testCases = []struct {
			name   string
			sender types.Address
			msg    *InstantiateMsg
			errIs  error
		}{
			{name: "nil message", sender: owner, msg: nil, errIs: ErrInvalidMessage},
			{name: "empty message", sender: owner, msg: &InstantiateMsg{}, errIs: ErrInvalidMessage},
			{
				name:   "both variants",
				sender: owner,
				msg:    &InstantiateMsg{NewToken: &NewTokenAttributes{Subdenom: "a"}, ExistingToken: &ExistingTokenAttributes{Denom: "uosmo"}},
				errIs:  ErrInvalidMessage,
			},
			{name: "empty subdenom", sender: owner, msg: &InstantiateMsg{NewToken: &NewTokenAttributes{}}, errIs: bank.ErrInvalidDenom},
			{name: "invalid denom", sender: owner, msg: &InstantiateMsg{ExistingToken: &ExistingTokenAttributes{Denom: "1x"}}, errIs: bank.ErrInvalidDenom},
			{name: "invalid sender", sender: "cosmos1foo", msg: &InstantiateMsg{NewToken: &NewTokenAttributes{Subdenom: "a"}}, errIs: ErrInvalidAddress},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				kv := memory.New().Begin(true)
				_, err := c.Instantiate(kv, tc.sender, tc.msg)
				require.ErrorIs(t, err, tc.errIs)
				_, err = c.Owner(kv)
				require.ErrorIs(t, err, ErrNotInstantiated)
			})
		}
	})

	t.Run("not instantiated", func(t *testing.T) {
		kv := memory.New().Begin(true)
		c := New(contractAddr, hrp)
		_, err := c.Execute(kv, owner, &ExecuteMsg{Freeze: &FreezeAttributes{Status: true}})
		require.ErrorIs(t, err, ErrNotInstantiated)
		_, err = c.Execute(kv, owner, &ExecuteMsg{Mint: &MintAttributes{ToAddress: owner, Amount: types.NewAmount(1)}})
		require.ErrorIs(t, err, ErrNotInstantiated)
		_, err = c.IsFrozen(kv)
		require.ErrorIs(t, err, ErrNotInstantiated)
		_, err = c.Denom(kv)
		require.ErrorIs(t, err, ErrNotInstantiated)
	})
}

func Test_Execute_invalidMessage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exec(env.owner, &ExecuteMsg{})
	require.ErrorIs(t, err, ErrInvalidMessage)
	_, err = env.exec(env.owner, nil)
	require.ErrorIs(t, err, ErrInvalidMessage)
	_, err = env.exec(env.owner, &ExecuteMsg{Freeze: &FreezeAttributes{}, SetFreezer: &SetFreezerAttributes{}})
	require.ErrorIs(t, err, ErrInvalidMessage)
	_, err = env.exec("osmo1bad", &ExecuteMsg{Freeze: &FreezeAttributes{Status: true}})
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func Test_SetMinterBurner(t *testing.T) {
	type allowanceFuncs struct {
		name   string
		set    func(env *testEnv, sender, addr types.Address, amount string) error
		lookup func(env *testEnv, addr types.Address) string
	}
	var variants = []allowanceFuncs{
		{
			name: "minter",
			set: func(env *testEnv, sender, addr types.Address, amount string) error {
				_, err := env.exec(sender, &ExecuteMsg{SetMinter: &SetMinterAttributes{Address: addr, Allowance: types.MustParseAmount(amount)}})
				return err
			},
			lookup: (*testEnv).mintAllowance,
		},
		{
			name: "burner",
			set: func(env *testEnv, sender, addr types.Address, amount string) error {
				_, err := env.exec(sender, &ExecuteMsg{SetBurner: &SetBurnerAttributes{Address: addr, Allowance: types.MustParseAmount(amount)}})
				return err
			},
			lookup: (*testEnv).burnAllowance,
		},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			t.Run("by owner", func(t *testing.T) {
				env := newTestEnv(t)
				require.NoError(t, v.set(env, env.owner, env.accs[1], "1000000"))
				require.Equal(t, "1000000", v.lookup(env, env.accs[1]))
			})

			t.Run("by non owner", func(t *testing.T) {
				env := newTestEnv(t)
				err := v.set(env, env.accs[1], env.accs[1], "1000000")
				require.ErrorIs(t, err, ErrUnauthorized)
				require.EqualError(t, err, "unauthorized")
				require.Equal(t, "0", v.lookup(env, env.accs[1]))
			})

			t.Run("overwrites", func(t *testing.T) {
				env := newTestEnv(t)
				require.NoError(t, v.set(env, env.owner, env.accs[1], "10"))
				require.NoError(t, v.set(env, env.owner, env.accs[1], "10"))
				require.Equal(t, "10", v.lookup(env, env.accs[1]), "setting twice must not accumulate")
				require.NoError(t, v.set(env, env.owner, env.accs[1], "3"))
				require.Equal(t, "3", v.lookup(env, env.accs[1]))
			})

			t.Run("zero revokes", func(t *testing.T) {
				env := newTestEnv(t)
				require.NoError(t, v.set(env, env.owner, env.accs[1], "10"))
				require.NoError(t, v.set(env, env.owner, env.accs[1], "0"))
				require.Equal(t, "0", v.lookup(env, env.accs[1]))
				// zero for principal never granted is valid as well
				require.NoError(t, v.set(env, env.owner, env.accs[2], "0"))
			})

			t.Run("invalid address", func(t *testing.T) {
				env := newTestEnv(t)
				require.ErrorIs(t, v.set(env, env.owner, "osmo1bad", "10"), ErrInvalidAddress)
				require.ErrorIs(t, v.set(env, env.owner, "", "10"), ErrInvalidAddress)
			})
		})
	}

	t.Run("minter and burner are independent", func(t *testing.T) {
		env := newTestEnv(t)
		env.setMinter(env.accs[0], "5")
		require.Equal(t, "5", env.mintAllowance(env.accs[0]))
		require.Equal(t, "0", env.burnAllowance(env.accs[0]))
	})
}

func Test_Mint(t *testing.T) {
	t.Run("allowance is spent", func(t *testing.T) {
		env := newTestEnv(t)
		minter, to := env.accs[0], env.accs[1]
		env.setMinter(minter, "1000000")

		res, err := env.mint(minter, to, "1000000")
		require.NoError(t, err)
		require.Equal(t, []bank.Msg{
			&bank.MintMsg{Sender: env.c.Address(), Amount: types.NewCoin(env.denom, types.NewAmount(1000000)), MintToAddress: to},
		}, res.Messages)
		require.Equal(t, "0", env.mintAllowance(minter))

		_, err = env.mint(minter, to, "1")
		requireOverflow(t, err, "0", "1")
		require.Equal(t, "0", env.mintAllowance(minter))
	})

	t.Run("within allowance", func(t *testing.T) {
		var testCases = []struct{ allowance, amount, left string }{
			{u128Max, u128Max, "0"},
			{u128Max, u128MaxMinus, "1"},
			{u128Max, "1", u128MaxMinus},
			{"2", "1", "1"},
			{"1", "1", "0"},
		}
		for _, tc := range testCases {
			env := newTestEnv(t)
			minter := env.accs[0]
			env.setMinter(minter, tc.allowance)
			_, err := env.mint(minter, env.accs[1], tc.amount)
			require.NoError(t, err)
			require.Equal(t, tc.left, env.mintAllowance(minter))
		}
	})

	t.Run("over allowance", func(t *testing.T) {
		var testCases = []struct{ allowance, amount string }{
			{u128MaxMinus, u128Max},
			{"0", "1"},
		}
		for _, tc := range testCases {
			env := newTestEnv(t)
			minter := env.accs[0]
			env.setMinter(minter, tc.allowance)
			_, err := env.mint(minter, env.accs[1], tc.amount)
			requireOverflow(t, err, tc.allowance, tc.amount)
			require.Equal(t, tc.allowance, env.mintAllowance(minter))
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		for _, allowance := range []string{u128Max, "0"} {
			env := newTestEnv(t)
			minter := env.accs[0]
			env.setMinter(minter, allowance)
			_, err := env.mint(minter, env.accs[1], "0")
			require.ErrorIs(t, err, ErrZeroAmount)
			require.Equal(t, allowance, env.mintAllowance(minter))
		}
	})

	t.Run("invalid recipient leaves allowance untouched", func(t *testing.T) {
		env := newTestEnv(t)
		minter := env.accs[0]
		env.setMinter(minter, "10")
		_, err := env.mint(minter, "osmo1xyz", "5")
		require.ErrorIs(t, err, ErrInvalidAddress)
		require.Equal(t, "10", env.mintAllowance(minter))
	})

	t.Run("owner has no implicit allowance", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.mint(env.owner, env.owner, "1")
		requireOverflow(t, err, "0", "1")
	})
}

func Test_Burn(t *testing.T) {
	t.Run("within allowance", func(t *testing.T) {
		var testCases = []struct{ allowance, amount, left string }{
			{u128Max, u128Max, "0"},
			{u128Max, u128MaxMinus, "1"},
			{u128Max, "1", u128MaxMinus},
			{"2", "1", "1"},
			{"1", "1", "0"},
		}
		for _, tc := range testCases {
			env := newTestEnv(t)
			burner, from := env.accs[0], env.accs[1]
			env.setBurner(burner, tc.allowance)
			res, err := env.burn(burner, from, tc.amount)
			require.NoError(t, err)
			require.Equal(t, []bank.Msg{
				&bank.BurnMsg{Sender: env.c.Address(), Amount: types.NewCoin(env.denom, types.MustParseAmount(tc.amount)), BurnFromAddress: from},
			}, res.Messages)
			require.Equal(t, tc.left, env.burnAllowance(burner))
		}
	})

	t.Run("over allowance", func(t *testing.T) {
		var testCases = []struct{ allowance, amount string }{
			{u128MaxMinus, u128Max},
			{"0", "1"},
		}
		for _, tc := range testCases {
			env := newTestEnv(t)
			burner := env.accs[0]
			env.setBurner(burner, tc.allowance)
			_, err := env.burn(burner, env.accs[1], tc.amount)
			requireOverflow(t, err, tc.allowance, tc.amount)
			require.Equal(t, tc.allowance, env.burnAllowance(burner))
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		for _, allowance := range []string{u128Max, "0"} {
			env := newTestEnv(t)
			burner := env.accs[0]
			env.setBurner(burner, allowance)
			_, err := env.burn(burner, env.accs[1], "0")
			require.ErrorIs(t, err, ErrZeroAmount)
			require.Equal(t, allowance, env.burnAllowance(burner))
		}
	})

	t.Run("mint allowance can't be used to burn", func(t *testing.T) {
		env := newTestEnv(t)
		env.setMinter(env.accs[0], "10")
		_, err := env.burn(env.accs[0], env.accs[1], "1")
		requireOverflow(t, err, "0", "1")
	})
}

func Test_Freeze(t *testing.T) {
	env := newTestEnv(t)
	freezer, other := env.accs[0], env.accs[1]

	isFrozen := func() bool {
		r, err := env.c.IsFrozen(env.kv)
		require.NoError(t, err)
		return r.IsFrozen
	}
	freeze := func(sender types.Address, status bool) error {
		_, err := env.exec(sender, &ExecuteMsg{Freeze: &FreezeAttributes{Status: status}})
		return err
	}

	require.ErrorIs(t, freeze(freezer, true), ErrUnauthorized)

	_, err := env.exec(freezer, &ExecuteMsg{SetFreezer: &SetFreezerAttributes{Address: freezer, Status: true}})
	require.ErrorIs(t, err, ErrUnauthorized, "only owner can set freezers")
	_, err = env.exec(env.owner, &ExecuteMsg{SetFreezer: &SetFreezerAttributes{Address: freezer, Status: true}})
	require.NoError(t, err)
	r, err := env.c.IsFreezer(env.kv, freezer)
	require.NoError(t, err)
	require.True(t, r.Status)

	require.NoError(t, freeze(freezer, true))
	require.True(t, isFrozen())
	require.ErrorIs(t, freeze(other, false), ErrUnauthorized)
	require.True(t, isFrozen())

	coin := types.NewCoin(env.denom, types.NewAmount(1))
	err = env.c.BeforeSend(env.kv, freezer, other, coin)
	require.ErrorIs(t, err, ErrContractFrozen)
	require.EqualError(t, err, `the contract is frozen for denom "`+env.denom+`"`)

	// owner is implicitly a freezer
	require.NoError(t, freeze(env.owner, false))
	require.False(t, isFrozen())
	require.NoError(t, env.c.BeforeSend(env.kv, freezer, other, coin))

	// removed freezer can't freeze anymore
	_, err = env.exec(env.owner, &ExecuteMsg{SetFreezer: &SetFreezerAttributes{Address: freezer, Status: false}})
	require.NoError(t, err)
	require.ErrorIs(t, freeze(freezer, true), ErrUnauthorized)
	r, err = env.c.IsFreezer(env.kv, freezer)
	require.NoError(t, err)
	require.False(t, r.Status)
}

func Test_Blacklist(t *testing.T) {
	env := newTestEnv(t)
	blacklister, alice, bob := env.accs[0], env.accs[1], env.accs[2]
	coin := types.NewCoin(env.denom, types.NewAmount(1))

	blacklist := func(sender, addr types.Address, status bool) error {
		_, err := env.exec(sender, &ExecuteMsg{Blacklist: &BlacklistAttributes{Address: addr, Status: status}})
		return err
	}

	require.ErrorIs(t, blacklist(blacklister, alice, true), ErrUnauthorized)
	_, err := env.exec(alice, &ExecuteMsg{SetBlacklister: &SetBlacklisterAttributes{Address: blacklister, Status: true}})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.exec(env.owner, &ExecuteMsg{SetBlacklister: &SetBlacklisterAttributes{Address: blacklister, Status: true}})
	require.NoError(t, err)

	require.NoError(t, blacklist(blacklister, alice, true))
	r, err := env.c.IsBlacklisted(env.kv, alice)
	require.NoError(t, err)
	require.True(t, r.Status)

	err = env.c.BeforeSend(env.kv, alice, bob, coin)
	require.ErrorIs(t, err, ErrBlacklisted)
	require.EqualError(t, err, "address is blacklisted: "+alice.String())
	require.ErrorIs(t, env.c.BeforeSend(env.kv, bob, alice, coin), ErrBlacklisted)
	require.NoError(t, env.c.BeforeSend(env.kv, bob, blacklister, coin))
	// upper case is the same address
	upperAlice := types.Address(strings.ToUpper(alice.String()))
	require.ErrorIs(t, env.c.BeforeSend(env.kv, upperAlice, bob, coin), ErrBlacklisted)
	require.ErrorIs(t, env.c.BeforeSend(env.kv, bob, upperAlice, coin), ErrBlacklisted)

	// owner is implicitly a blacklister
	require.NoError(t, blacklist(env.owner, alice, false))
	require.NoError(t, env.c.BeforeSend(env.kv, alice, bob, coin))

	require.ErrorIs(t, blacklist(blacklister, "foo", true), ErrInvalidAddress)
}

func Test_ChangeContractOwner(t *testing.T) {
	env := newTestEnv(t)
	newOwner := env.accs[0]
	change := &ExecuteMsg{ChangeContractOwner: &ChangeContractOwnerAttributes{NewOwner: newOwner}}

	_, err := env.exec(newOwner, change)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.exec(env.owner, &ExecuteMsg{ChangeContractOwner: &ChangeContractOwnerAttributes{NewOwner: "x"}})
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = env.exec(env.owner, change)
	require.NoError(t, err)
	o, err := env.c.Owner(env.kv)
	require.NoError(t, err)
	require.Equal(t, newOwner, o.Address)

	// previous owner lost the rights
	_, err = env.exec(env.owner, &ExecuteMsg{SetMinter: &SetMinterAttributes{Address: env.owner, Allowance: types.NewAmount(1)}})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.exec(newOwner, &ExecuteMsg{SetMinter: &SetMinterAttributes{Address: newOwner, Allowance: types.NewAmount(1)}})
	require.NoError(t, err)
}

func Test_ChangeTokenFactoryAdmin(t *testing.T) {
	env := newTestEnv(t)
	newAdmin := env.accs[0]
	change := &ExecuteMsg{ChangeTokenFactoryAdmin: &ChangeTokenFactoryAdminAttributes{NewAdmin: newAdmin}}

	_, err := env.exec(newAdmin, change)
	require.ErrorIs(t, err, ErrUnauthorized)

	res, err := env.exec(env.owner, change)
	require.NoError(t, err)
	require.Equal(t, []bank.Msg{&bank.ChangeAdminMsg{Sender: env.c.Address(), Denom: env.denom, NewAdmin: newAdmin}}, res.Messages)
}

func Test_Query(t *testing.T) {
	env := newTestEnv(t)
	env.setMinter(env.accs[0], "7")

	r, err := env.c.Query(env.kv, &QueryMsg{Denom: &Empty{}})
	require.NoError(t, err)
	require.Equal(t, &DenomResponse{Denom: env.denom}, r)

	r, err = env.c.Query(env.kv, &QueryMsg{MintAllowance: &AddressQuery{Address: env.accs[0]}})
	require.NoError(t, err)
	require.Equal(t, "7", r.(*AllowanceResponse).Allowance.String())

	r, err = env.c.Query(env.kv, &QueryMsg{MintAllowances: &ListQuery{}})
	require.NoError(t, err)
	require.Len(t, r.(*AllowancesResponse).Allowances, 1)

	r, err = env.c.Query(env.kv, &QueryMsg{Blacklistees: &ListQuery{}})
	require.NoError(t, err)
	require.Empty(t, r.(*StatusesResponse).Statuses)

	r, err = env.c.Query(env.kv, &QueryMsg{BurnAllowance: &AddressQuery{Address: "nope"}})
	require.ErrorIs(t, err, ErrInvalidAddress)
	require.Nil(t, r)

	_, err = env.c.Query(env.kv, &QueryMsg{})
	require.ErrorIs(t, err, ErrInvalidMessage)
	_, err = env.c.Query(env.kv, &QueryMsg{Denom: &Empty{}, Owner: &Empty{}})
	require.ErrorIs(t, err, ErrInvalidMessage)
}
