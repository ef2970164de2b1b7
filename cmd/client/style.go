package main

import (
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/luca-patrignani/blackjack/domain/blackjack"
	"github.com/luca-patrignani/blackjack/ledger"
	"github.com/luca-patrignani/blackjack/network"
	"github.com/luca-patrignani/blackjack/protocol"
)

var printer = message.NewPrinter(language.English)

func summaryLine(s ledger.Summary) string {
	return printer.Sprintf("Finished playing %d rounds, win rate: %.2f", s.Rounds, s.WinRate())
}

func resultLabel(result protocol.Result) string {
	switch result {
	case protocol.Win:
		return pterm.LightGreen("You won!")
	case protocol.Loss:
		return pterm.LightRed("You lost")
	case protocol.Tie:
		return pterm.LightYellow("Tie")
	default:
		return pterm.Gray("Playing")
	}
}

func handString(hand blackjack.Hand, hidden bool) string {
	cards := make([]string, 0, len(hand)+1)
	for _, c := range hand {
		cards = append(cards, c.String())
	}
	if hidden {
		cards = append(cards, blackjack.FaceDown)
	}
	return strings.Join(cards, " - ")
}

func handBox(title string, hand blackjack.Hand, hidden bool) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\nTotal: %d\n", handString(hand, hidden), hand.Score())
}

// printTable renders both hands. The dealer's second card stays face down
// until the dealer plays.
func printTable(view network.RoundView, dealerHidden bool) {
	header := pterm.LightYellow(printer.Sprintf("|ROUND %d OF %d|", view.Round, view.Rounds))
	pterm.DefaultSection.Println(header)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{{
		{Data: handBox("You", view.Player, false)},
		{Data: handBox("Dealer", view.Dealer, dealerHidden)},
	}}).Render()
}

// printUpdate narrates one packet from the dealer.
func printUpdate(u network.Update) {
	switch u.Kind {
	case network.PlayerCard:
		pterm.Info.Printfln("You got the %s", u.Card.Name())
		if u.Result == protocol.Loss {
			pterm.Warning.Printfln("Bust with %d", u.View.Player.Score())
		}
	case network.DealerCard:
		pterm.Info.Printfln("Dealer shows the %s", u.Card.Name())
	case network.Rejected:
		pterm.Warning.Println("The dealer rejected the decision, try again")
	case network.RoundOver:
		printTable(u.View, false)
		pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
		pterm.Println(pbox.WithTitle(pterm.LightCyan("|RESULT|")).WithTitleTopCenter().Sprint(resultLabel(u.Result)))
	}
}
