package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ze-news/internal/authz"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/provider"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
	adminPromote  bool
)

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "管理员邮箱")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "管理员密码，需满足密码策略")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "姓名")
	createAdminCmd.Flags().BoolVar(&adminPromote, "promote", false, "邮箱已存在时提升为管理员")
	_ = createAdminCmd.MarkFlagRequired("email")

	policiesCmd.AddCommand(grantPolicyCmd, revokePolicyCmd)
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员账号或提升已有账号",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigrated()
		if err != nil {
			return err
		}
		c, err := provider.NewContainer(cfg, db)
		if err != nil {
			return err
		}
		defer c.Close()

		email := strings.ToLower(strings.TrimSpace(adminEmail))
		existing, err := c.ProfileRepo.GetByEmail(email)
		if err != nil {
			return err
		}
		if existing != nil {
			if !adminPromote {
				return fmt.Errorf("profile %s already exists, pass --promote to grant admin", email)
			}
			if existing.Role == constants.RoleAdmin {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already admin\n", email)
				return nil
			}
			audit := &models.RoleAuditLog{
				OperatorID: "cli",
				TargetID:   existing.ID,
				FromRole:   existing.Role,
				ToRole:     constants.RoleAdmin,
			}
			if err := c.ProfileRepo.ChangeRole(existing, constants.RoleAdmin, audit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to admin\n", email)
			return nil
		}

		if adminPassword == "" {
			return errors.New("--password is required for a new profile")
		}
		if err := c.AuthService.ValidatePassword(adminPassword); err != nil {
			return err
		}
		hash, err := c.AuthService.HashPassword(adminPassword)
		if err != nil {
			return err
		}
		profile := &models.Profile{
			Email:        email,
			Role:         constants.RoleAdmin,
			PasswordHash: hash,
		}
		if name := strings.TrimSpace(adminName); name != "" {
			profile.FullName = &name
		}
		if err := c.ProfileRepo.Create(profile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", email, profile.ID)
		return nil
	},
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "输出当前角色授权策略",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigrated()
		if err != nil {
			return err
		}
		c, err := provider.NewContainer(cfg, db)
		if err != nil {
			return err
		}
		defer c.Close()

		policies, err := c.AuthzService.Policies()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range policies {
			fmt.Fprintf(out, "%-14s %-8s %s\n", p.Subject, p.Action, p.Object)
		}
		return nil
	},
}

var grantPolicyCmd = &cobra.Command{
	Use:   "grant <role> <object> <action>",
	Short: "为角色追加授权策略",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuthz(func(svc *authz.Service) error {
			return changePolicy(svc, true, args)
		})
	},
}

var revokePolicyCmd = &cobra.Command{
	Use:   "revoke <role> <object> <action>",
	Short: "撤销角色的授权策略",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuthz(func(svc *authz.Service) error {
			return changePolicy(svc, false, args)
		})
	},
}

func withAuthz(fn func(svc *authz.Service) error) error {
	db, err := openMigrated()
	if err != nil {
		return err
	}
	svc, err := authz.NewService(db)
	if err != nil {
		return err
	}
	return fn(svc)
}

// changePolicy 预置角色的策略每次启动会被补齐，撤销只对自定义策略长期有效
func changePolicy(svc *authz.Service, grant bool, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected <role> <object> <action>")
	}
	role, object, action := args[0], args[1], args[2]
	if grant {
		if err := svc.GrantRolePolicy(role, object, action); err != nil {
			return err
		}
		logger.Infow("cli_policy_granted", "role", role, "object", object, "action", action)
		return nil
	}
	if err := svc.RevokeRolePolicy(role, object, action); err != nil {
		return err
	}
	logger.Infow("cli_policy_revoked", "role", role, "object", object, "action", action)
	return nil
}
