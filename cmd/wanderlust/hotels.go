package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

func (a *app) cmdHotels(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("hotels needs a subcommand: list, get, create, update, delete, favorite")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.hotelsList(ctx, rest)
	case "get":
		return a.hotelsGet(ctx, rest)
	case "create":
		return a.hotelsCreate(ctx, rest)
	case "update":
		return a.hotelsUpdate(ctx, rest)
	case "delete":
		return a.hotelsDelete(ctx, rest)
	case "favorite":
		return a.hotelsFavorite(ctx, rest)
	default:
		return fmt.Errorf("unknown hotels subcommand %q", sub)
	}
}

func (a *app) hotelsList(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("hotels list", pflag.ContinueOnError)
	search := fs.String("search", "", "match against name and description")
	location := fs.String("location", "", "filter by location")
	minPrice := fs.Float64("min-price", -1, "minimum nightly price")
	maxPrice := fs.Float64("max-price", -1, "maximum nightly price")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := api.HotelFilter{
		Search:   *search,
		Location: *location,
		Page:     *page,
		Limit:    *limit,
	}
	if fs.Changed("min-price") {
		filter.MinPrice = minPrice
	}
	if fs.Changed("max-price") {
		filter.MaxPrice = maxPrice
	}

	result, err := a.client.ListHotels(ctx, filter)
	if err != nil {
		return err
	}
	printHotelPage(result)
	return nil
}

func (a *app) hotelsGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hotels get <id>")
	}

	hotel, err := a.client.GetHotel(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", hotel.Name, strings.Repeat("=", len(hotel.Name)))
	fmt.Printf("location:  %s\n", hotel.Location)
	fmt.Printf("price:     $%.2f/night\n", hotel.Price)
	fmt.Printf("rating:    %.1f\n", hotel.Rating)
	fmt.Printf("available: %t\n", hotel.IsAvailable)
	if len(hotel.Amenities) > 0 {
		fmt.Printf("amenities: %s\n", strings.Join(hotel.Amenities, ", "))
	}
	if hotel.Description != "" {
		fmt.Printf("\n%s\n", hotel.Description)
	}
	if a.session.Snapshot().Authenticated() && a.session.Snapshot().User.HasFavorite(hotel.ID) {
		fmt.Println("\n(in your favorites)")
	}
	return nil
}

func (a *app) hotelsCreate(ctx context.Context, args []string) error {
	ok, err := a.requireAccess(ctx, []api.Role{api.RoleOperator}, "/hotels/create")
	if !ok {
		return err
	}

	params, err := hotelParamsFlags("hotels create", args)
	if err != nil {
		return err
	}

	hotel, err := a.client.CreateHotel(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("created hotel %s (%s)\n", hotel.Name, hotel.ID)
	return nil
}

func (a *app) hotelsUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hotels update <id> [flags]")
	}
	id := args[0]

	ok, err := a.requireAccess(ctx, []api.Role{api.RoleOperator}, "/hotels/"+id+"/edit")
	if !ok {
		return err
	}

	params, err := hotelParamsFlags("hotels update", args[1:])
	if err != nil {
		return err
	}

	hotel, err := a.client.UpdateHotel(ctx, id, params)
	if err != nil {
		return err
	}
	fmt.Printf("updated hotel %s\n", hotel.ID)
	return nil
}

func (a *app) hotelsDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hotels delete <id>")
	}

	ok, err := a.requireAccess(ctx, []api.Role{api.RoleOperator}, "/hotels/"+args[0]+"/edit")
	if !ok {
		return err
	}

	if err := a.client.DeleteHotel(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("hotel deleted")
	return nil
}

func (a *app) hotelsFavorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hotels favorite <id>")
	}

	ok, err := a.requireAccess(ctx, nil, "/hotels/"+args[0])
	if !ok {
		return err
	}

	user, err := a.client.ToggleFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	if user.HasFavorite(args[0]) {
		fmt.Println("added to favorites")
	} else {
		fmt.Println("removed from favorites")
	}
	return nil
}

func hotelParamsFlags(name string, args []string) (api.HotelParams, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	var params api.HotelParams
	fs.StringVar(&params.Name, "name", "", "hotel name")
	fs.StringVar(&params.Description, "description", "", "hotel description")
	fs.StringVar(&params.Location, "location", "", "hotel location")
	fs.Float64Var(&params.Price, "price", 0, "nightly price")
	fs.Float64Var(&params.Rating, "rating", 0, "average rating")
	fs.StringSliceVar(&params.Amenities, "amenity", nil, "amenity (repeatable)")
	fs.StringSliceVar(&params.Images, "image", nil, "image URL (repeatable)")
	fs.BoolVar(&params.IsAvailable, "available", true, "accepting bookings")
	if err := fs.Parse(args); err != nil {
		return api.HotelParams{}, err
	}
	return params, nil
}

func printHotelPage(page *api.Page[api.Hotel]) {
	if len(page.Data) == 0 {
		fmt.Println("no hotels found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tPRICE\tRATING\tAVAILABLE")
	for _, h := range page.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%.1f\t%t\n",
			h.ID, h.Name, h.Location, h.Price, h.Rating, h.IsAvailable)
	}
	w.Flush()

	p := page.Pagination
	if p.Pages > 1 {
		fmt.Printf("\npage %d of %d (%d hotels)\n", p.Page, p.Pages, p.Total)
	}
}
