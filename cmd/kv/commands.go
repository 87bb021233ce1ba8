package kv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	configureCmd = &cobra.Command{
		Use:   "configure [actor] [param=value ...]",
		Short: "Binds an actor to a store handle (system actor only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor := args[0]
			params := map[string]string{}
			for _, param := range args[1:] {
				parts := strings.SplitN(param, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid parameter format: %s (expected param=value)", param)
				}
				params[parts[0]] = parts[1]
			}
			if err := kv.Configure(actor, params); err != nil {
				return err
			}
			fmt.Printf("configured actor %s\n", actor)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := kv.Set(key, value); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if value, found, err := kv.Get(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, value=%s\n", key, found, value)
			}
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [key] [delta]",
		Short: "Increments the numeric value for a key by delta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			delta, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("delta must be a number: %w", err)
			}
			if value, err := kv.Add(key, int32(delta)); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%d\n", key, value)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := kv.Del(key); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	existsCmd = &cobra.Command{
		Use:   "exists [key]",
		Short: "Checks whether a key is present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if exists, err := kv.Exists(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, exists=%v\n", key, exists)
			}
			return nil
		},
	}
	pushCmd = &cobra.Command{
		Use:   "push [key] [value]",
		Short: "Prepends a value to the list under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if count, err := kv.Push(key, value); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, length=%d\n", key, count)
			}
			return nil
		},
	}
	rangeCmd = &cobra.Command{
		Use:   "range [key] [start] [stop]",
		Short: "Reads an inclusive index range from the list under a key",
		Long:  "Reads an inclusive index range from the list under a key. Negative indices address from the tail of the list, e.g. 'range mylist 0 -1' reads the whole list.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			start, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("start must be a number: %w", err)
			}
			stop, err := strconv.ParseInt(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("stop must be a number: %w", err)
			}
			if values, err := kv.Range(key, int32(start), int32(stop)); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, values=%v\n", key, values)
			}
			return nil
		},
	}
	listDelCmd = &cobra.Command{
		Use:   "ldel [key] [value]",
		Short: "Removes every occurrence of a value from the list under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if count, err := kv.ListDelItem(key, value); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, length=%d\n", key, count)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Removes the list under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := kv.Clear(key); err != nil {
				return err
			} else {
				fmt.Println("clear successfully")
			}
			return nil
		},
	}
	setAddCmd = &cobra.Command{
		Use:   "sadd [key] [member]",
		Short: "Inserts a member into the set under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			member := args[1]
			if count, err := kv.SetAdd(key, member); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, members=%d\n", key, count)
			}
			return nil
		},
	}
	setRemoveCmd = &cobra.Command{
		Use:   "srem [key] [member]",
		Short: "Removes a member from the set under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			member := args[1]
			if count, err := kv.SetRemove(key, member); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, members=%d\n", key, count)
			}
			return nil
		},
	}
	setUnionCmd = &cobra.Command{
		Use:   "sunion [key ...]",
		Short: "Reads the union of the sets under the given keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if values, err := kv.SetUnion(args...); err != nil {
				return err
			} else {
				fmt.Printf("members=%v\n", values)
			}
			return nil
		},
	}
	setIntersectCmd = &cobra.Command{
		Use:   "sinter [key ...]",
		Short: "Reads the intersection of the sets under the given keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if values, err := kv.SetIntersect(args...); err != nil {
				return err
			} else {
				fmt.Printf("members=%v\n", values)
			}
			return nil
		},
	}
	setQueryCmd = &cobra.Command{
		Use:   "smembers [key]",
		Short: "Reads all members of the set under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if values, err := kv.SetQuery(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, members=%v\n", key, values)
			}
			return nil
		},
	}
)
