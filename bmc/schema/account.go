// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

// AccountService is the AccountService resource.
type AccountService struct {
	Resource
	ServiceEnabled                  *bool    `json:"ServiceEnabled,omitempty"`
	MinPasswordLength               *int     `json:"MinPasswordLength,omitempty"`
	MaxPasswordLength               *int     `json:"MaxPasswordLength,omitempty"`
	AccountLockoutThreshold         *int     `json:"AccountLockoutThreshold,omitempty"`
	AccountLockoutDuration          *int     `json:"AccountLockoutDuration,omitempty"`
	AccountLockoutCounterResetAfter *int     `json:"AccountLockoutCounterResetAfter,omitempty"`
	Accounts                        *ODataID `json:"Accounts,omitempty"`
	Roles                           *ODataID `json:"Roles,omitempty"`
}

// ManagerAccount is an AccountService/Accounts/{id} resource.
type ManagerAccount struct {
	Resource
	UserName string `json:"UserName"`
	RoleID   RoleID `json:"RoleId"`
	Enabled  bool   `json:"Enabled"`
	Locked   bool   `json:"Locked"`
	// Write only.
	Password string `json:"Password,omitempty"`
}

// Session is a SessionService/Sessions/{id} resource.
type Session struct {
	Resource
	UserName string `json:"UserName,omitempty"`
	Password string `json:"Password,omitempty"`
}
